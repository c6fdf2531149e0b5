package store

import (
	"context"
)

// TokenKey is the storage key holding the raw bearer token.
const TokenKey = "auth_token"

// TokenStorage is the durable mirror of one client's bearer token.
// Token returns "" with a nil error when no token is stored.
type TokenStorage interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	RemoveToken(ctx context.Context) error
}

// Store is a key/value store partitioned by client id, the server-side
// stand-in for each browser's local storage.
type Store interface {
	// GetItem returns the value and whether it exists.
	GetItem(ctx context.Context, clientID, key string) (string, bool, error)
	SetItem(ctx context.Context, clientID, key, value string) error
	RemoveItem(ctx context.Context, clientID, key string) error
	// DeleteClient drops every item stored for clientID.
	DeleteClient(ctx context.Context, clientID string) error

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// Scope binds a Store to one client and exposes its token.
func Scope(st Store, clientID string) TokenStorage {
	return &scoped{st: st, clientID: clientID}
}

type scoped struct {
	st       Store
	clientID string
}

func (s *scoped) Token(ctx context.Context) (string, error) {
	v, _, err := s.st.GetItem(ctx, s.clientID, TokenKey)
	return v, err
}

func (s *scoped) SetToken(ctx context.Context, token string) error {
	return s.st.SetItem(ctx, s.clientID, TokenKey, token)
}

func (s *scoped) RemoveToken(ctx context.Context) error {
	return s.st.RemoveItem(ctx, s.clientID, TokenKey)
}
