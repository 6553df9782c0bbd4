package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
)

// BadgerStore is an embedded, on-disk KeyValueStore.
type BadgerStore struct {
	db *badger.DB
}

var _ providers.KeyValueStore = (*BadgerStore)(nil)

// OpenBadgerStore opens (creating if needed) a Badger database in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir))
	if err != nil {
		return nil, fmt.Errorf("while opening badger kv dir %q: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close flushes and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("while closing badger db: %w", err)
	}
	return nil
}

func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("while reading %s: %w", key, err)
	}
	return value, nil
}

func (s *BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	return s.update(key, func(txn *badger.Txn) error {
		return txn.Set([]byte(key), append([]byte(nil), value...))
	})
}

func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	return s.update(key, func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *BadgerStore) update(key string, fn func(txn *badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("while writing %s: %w", key, err)
		}
		return nil
	}
}
