package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.TokenStore)
	assert.Equal(t, 15*time.Minute, cfg.CheckInterval)
	assert.Equal(t, DefaultNestJSURL, cfg.Backends.NestJSURL)
	assert.Equal(t, DefaultPythonURL, cfg.Backends.PythonURL)
}

func TestBackendConfig_ApplyEnv(t *testing.T) {
	t.Setenv(EnvNestJSURL, "https://api.example.com/api")
	t.Setenv(EnvPythonURL, "")

	cfg := DefaultBackendConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "https://api.example.com/api", cfg.NestJSURL)
	assert.Equal(t, DefaultPythonURL, cfg.PythonURL, "empty env must not override")
}

func TestLoadFile_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.yaml")
	yml := `addr: ":9090"
token_store: redis
redis_addr: "localhost:6379"
check_interval: 5m
cors_origins: ["http://localhost:5173"]
backends:
  python_url: "http://qa:8000/api"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg := DefaultServerConfig()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "redis", cfg.TokenStore)
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "http://qa:8000/api", cfg.Backends.PythonURL)
	assert.Equal(t, DefaultNestJSURL, cfg.Backends.NestJSURL, "unset key keeps default")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := DefaultServerConfig()
	err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("VITE_PYTHON_API_URL=http://from-dotenv:8000/api\n"), 0o600))
	os.Unsetenv(EnvPythonURL)
	t.Cleanup(func() { os.Unsetenv(EnvPythonURL) })

	require.NoError(t, LoadEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "http://from-dotenv:8000/api", os.Getenv(EnvPythonURL))
}

func TestServerConfig_ApplyEnv(t *testing.T) {
	t.Setenv("JARVIS_ADDR", ":7070")
	t.Setenv("JARVIS_TOKEN_STORE", "memory")
	t.Setenv("JARVIS_CORS_ORIGINS", "https://a.example.com/, ,https://b.example.com")
	t.Setenv(EnvNestJSURL, "https://api.example.com/api")

	cfg := DefaultServerConfig()
	cfg.ApplyEnv()

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "memory", cfg.TokenStore)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "https://api.example.com/api", cfg.Backends.NestJSURL)
}
