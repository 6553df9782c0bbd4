package providers

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore defines the durable string-keyed storage the session store mirrors into.
// Values are JSON documents.
type KeyValueStore interface {
	// Get retrieves a value, or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value without expiration
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Exists checks if a key is present
	Exists(ctx context.Context, key string) (bool, error)
}
