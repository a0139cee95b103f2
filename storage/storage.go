// Package storage holds the durable key-value slots the stores persist to, and the backends
// that can serve them.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Get when a slot has never been written.
var ErrNotFound = errors.New("storage: slot not found")

// Slot keys.
const (
	KeyPantryItems   = "pantryItems"
	KeyShoppingList  = "shoppingList"
	KeyRecentRecipes = "recentRecipes"
	KeyAPIKey        = "spoonacularApiKey"
)

// Store is a namespaced key-value backend. Values are opaque JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps slots in process memory. Used by tests and ephemeral runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	err  error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// NewMemoryStoreWithError returns a store whose every operation fails with err.
func NewMemoryStoreWithError(err error) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), err: err}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.data, key)
	return nil
}

// Keys returns the keys currently held, in no particular order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
