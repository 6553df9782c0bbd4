package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
)

// InstrumentedStore wraps a KeyValueStore with spans and duration metrics
type InstrumentedStore struct {
	inner   providers.KeyValueStore
	backend string
	metrics *observability.Metrics
}

var _ providers.KeyValueStore = (*InstrumentedStore)(nil)

// NewInstrumentedStore creates a new instrumented store
func NewInstrumentedStore(inner providers.KeyValueStore, backend string, metrics *observability.Metrics) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, backend: backend, metrics: metrics}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.observe(ctx, "get", func(ctx context.Context) error {
		var err error
		value, err = s.inner.Get(ctx, key)
		return err
	})
	return value, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.observe(ctx, "set", func(ctx context.Context) error {
		return s.inner.Set(ctx, key, value)
	})
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	return s.observe(ctx, "delete", func(ctx context.Context) error {
		return s.inner.Delete(ctx, key)
	})
}

func (s *InstrumentedStore) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := s.observe(ctx, "exists", func(ctx context.Context) error {
		var err error
		ok, err = s.inner.Exists(ctx, key)
		return err
	})
	return ok, err
}

func (s *InstrumentedStore) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := observability.StartSpan(ctx, "kv."+op)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	observability.RecordStorageMetric(ctx, s.metrics, s.backend+"."+op, time.Since(start))

	// misses are not span errors
	if err != nil && !errors.Is(err, providers.ErrKeyNotFound) {
		observability.RecordError(span, err)
	}
	return err
}
