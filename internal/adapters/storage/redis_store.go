package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements the KeyValueStore interface using Redis
type RedisStore struct {
	client redis.Cmdable
}

var _ providers.KeyValueStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// Get retrieves a value from Redis
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return result, nil
}

// Set stores a value with no expiration
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in redis: %w", key, err)
	}
	return nil
}

// Delete removes a value from Redis
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from redis: %w", key, err)
	}
	return nil
}

// Exists checks if a key exists in Redis
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	result, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s in redis: %w", key, err)
	}
	return result > 0, nil
}
