package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

func (s *SQLiteStore) GetItem(ctx context.Context, clientID, key string) (string, bool, error) {
	s.logger.Debug("sql", "op", "select", "table", "client_storage", "client", clientID, "key", key)

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE client_id = ? AND key = ?`, clientID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) SetItem(ctx context.Context, clientID, key, value string) error {
	s.logger.Debug("sql", "op", "upsert", "table", "client_storage", "client", clientID, "key", key)

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (client_id, key, value, updated_at, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(client_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		clientID, key, value, now, now,
	)
	if err != nil {
		return fmt.Errorf("set item %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) RemoveItem(ctx context.Context, clientID, key string) error {
	s.logger.Debug("sql", "op", "delete", "table", "client_storage", "client", clientID, "key", key)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE client_id = ? AND key = ?`, clientID, key)
	if err != nil {
		return fmt.Errorf("remove item %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteClient(ctx context.Context, clientID string) error {
	s.logger.Debug("sql", "op", "delete", "table", "client_storage", "client", clientID)

	_, err := s.db.ExecContext(ctx, `DELETE FROM client_storage WHERE client_id = ?`, clientID)
	return err
}

// DeleteStale removes items not written since before. Returns rows removed.
func (s *SQLiteStore) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM client_storage WHERE updated_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
