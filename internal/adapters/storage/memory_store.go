package storage

import (
	"context"
	"sync"

	"github.com/jsimpson73/test-med-app/internal/domain/providers"
)

// MemoryStore is a process-local KeyValueStore.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ providers.KeyValueStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get retrieves a copy of the stored value
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, providers.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes a key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Exists checks if a key is present
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok, nil
}
