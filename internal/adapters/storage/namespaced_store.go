package storage

import (
	"context"

	"github.com/jsimpson73/test-med-app/internal/domain/providers"
)

// NamespacedStore prefixes every key, giving each client session its own
// slice of a shared backend.
type NamespacedStore struct {
	inner  providers.KeyValueStore
	prefix string
}

var _ providers.KeyValueStore = (*NamespacedStore)(nil)

// NewNamespacedStore wraps inner so that key k is stored as prefix+k
func NewNamespacedStore(inner providers.KeyValueStore, prefix string) *NamespacedStore {
	return &NamespacedStore{inner: inner, prefix: prefix}
}

// SessionNamespace is the key prefix for one client session.
func SessionNamespace(sessionID string) string {
	return "session:" + sessionID + ":"
}

func (s *NamespacedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *NamespacedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *NamespacedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *NamespacedStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.inner.Exists(ctx, s.prefix+key)
}
