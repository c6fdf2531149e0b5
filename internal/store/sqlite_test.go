package store

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteStore_ItemRoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if _, ok, err := st.GetItem(ctx, "c1", TokenKey); err != nil || ok {
		t.Fatalf("GetItem on empty store = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := st.SetItem(ctx, "c1", TokenKey, "tok-1"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if err := st.SetItem(ctx, "c1", TokenKey, "tok-2"); err != nil {
		t.Fatalf("SetItem overwrite: %v", err)
	}

	v, ok, err := st.GetItem(ctx, "c1", TokenKey)
	if err != nil || !ok {
		t.Fatalf("GetItem: ok=%v err=%v", ok, err)
	}
	if v != "tok-2" {
		t.Errorf("value = %q, want tok-2", v)
	}

	if err := st.RemoveItem(ctx, "c1", TokenKey); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok, _ := st.GetItem(ctx, "c1", TokenKey); ok {
		t.Error("item still present after RemoveItem")
	}
}

func TestSQLiteStore_ClientsAreIsolated(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	_ = st.SetItem(ctx, "c1", TokenKey, "a")
	_ = st.SetItem(ctx, "c2", TokenKey, "b")

	if err := st.DeleteClient(ctx, "c1"); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, ok, _ := st.GetItem(ctx, "c1", TokenKey); ok {
		t.Error("c1 item survived DeleteClient")
	}
	if v, _, _ := st.GetItem(ctx, "c2", TokenKey); v != "b" {
		t.Errorf("c2 value = %q, want b", v)
	}
}

func TestSQLiteStore_DeleteStale(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	_ = st.SetItem(ctx, "c1", TokenKey, "a")

	n, err := st.DeleteStale(ctx, time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("DeleteStale(past) = (%d, %v), want (0, nil)", n, err)
	}
	n, err = st.DeleteStale(ctx, time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("DeleteStale(future) = (%d, %v), want (1, nil)", n, err)
	}
}

func TestSQLiteStore_MigrateIdempotent(t *testing.T) {
	st := testStore(t)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.db")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := context.Background()

	st, err := NewSQLiteStore(path, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Scope(st, "browser").SetToken(ctx, "persisted"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	st.Close()

	st, err = NewSQLiteStore(path, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	tok, err := Scope(st, "browser").Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "persisted" {
		t.Errorf("token = %q, want persisted", tok)
	}
}

func TestSQLiteStore_Timestamps(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.SetItem(ctx, "c1", TokenKey, "tok-1"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	var created, updated int64
	if err := st.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM client_storage WHERE client_id = ? AND key = ?`,
		"c1", TokenKey).Scan(&created, &updated); err != nil {
		t.Fatalf("select: %v", err)
	}
	if created == 0 || created != updated {
		t.Errorf("created_at = %d, updated_at = %d, want equal and non-zero", created, updated)
	}
}
