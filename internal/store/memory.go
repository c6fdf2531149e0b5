package store

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. Nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]map[string]string)}
}

func (m *MemoryStore) GetItem(_ context.Context, clientID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[clientID][key]
	return v, ok, nil
}

func (m *MemoryStore) SetItem(_ context.Context, clientID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[clientID] == nil {
		m.items[clientID] = make(map[string]string)
	}
	m.items[clientID][key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, clientID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[clientID], key)
	return nil
}

func (m *MemoryStore) DeleteClient(_ context.Context, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, clientID)
	return nil
}

func (m *MemoryStore) Close() error                    { return nil }
func (m *MemoryStore) Migrate(_ context.Context) error { return nil }

// MemoryTokens returns a standalone TokenStorage, handy in tests.
func MemoryTokens(initial string) TokenStorage {
	st := NewMemoryStore()
	if initial != "" {
		_ = st.SetItem(context.Background(), "", TokenKey, initial)
	}
	return Scope(st, "")
}
