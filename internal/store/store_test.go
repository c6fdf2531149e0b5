package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/jarvis/internal/logging"
)

// exerciseTokenStorage checks the TokenStorage contract against any backend.
func exerciseTokenStorage(t *testing.T, ts TokenStorage) {
	t.Helper()
	ctx := context.Background()

	tok, err := ts.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, ts.SetToken(ctx, "valid-token"))
	tok, err = ts.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "valid-token", tok)

	require.NoError(t, ts.RemoveToken(ctx))
	tok, err = ts.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, ts.RemoveToken(ctx), "removing an absent token is not an error")
}

func TestScope_SQLite(t *testing.T) {
	exerciseTokenStorage(t, Scope(testStore(t), "client-a"))
}

func TestScope_Memory(t *testing.T) {
	exerciseTokenStorage(t, Scope(NewMemoryStore(), "client-a"))
}

func TestMemoryTokens_Initial(t *testing.T) {
	tok, err := MemoryTokens("seed").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seed", tok)
}

func TestFileTokenStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	fs := NewFileTokenStorage(path)
	exerciseTokenStorage(t, fs)

	require.NoError(t, fs.SetToken(context.Background(), "abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"auth_token": "abc"`)
}

func TestFileTokenStorage_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileTokenStorage(path).Token(context.Background())
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("JARVIS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("JARVIS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	st, err := NewRedisStore(ctx, addr, time.Minute, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	client := "test-" + t.Name()
	t.Cleanup(func() { _ = st.DeleteClient(ctx, client) })
	exerciseTokenStorage(t, Scope(st, client))
}
