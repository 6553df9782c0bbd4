package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
)

const kvTable = "kv_store"

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore implements KeyValueStore on a single Postgres table.
type PostgresStore struct {
	db      *sql.DB
	dialect *goqu.Database
	now     func() time.Time
}

var _ providers.KeyValueStore = (*PostgresStore)(nil)

// NewPostgresStore creates a Postgres-backed store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		dialect: goqu.New("postgres", db),
		now:     time.Now,
	}
}

// EnsureSchema creates the backing table if it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createKVTable); err != nil {
		return apperrors.NewInternalError("failed to create kv_store table", err)
	}
	return nil
}

// Get retrieves a value by key
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.dialect.From(kvTable).
		Select("value").
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build kv select query", err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read kv entry", err)
	}
	return []byte(value), nil
}

// Set upserts a value
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	record := goqu.Record{
		"key":        key,
		"value":      string(value),
		"updated_at": s.now().UTC(),
	}

	query, args, err := s.dialect.Insert(kvTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.L("EXCLUDED.value"),
			"updated_at": goqu.L("EXCLUDED.updated_at"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build kv upsert query", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to write kv entry", err)
	}
	return nil
}

// Delete removes a key
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query, args, err := s.dialect.Delete(kvTable).
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build kv delete query", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to delete kv entry", err)
	}
	return nil
}

// Exists checks if a key is present
func (s *PostgresStore) Exists(ctx context.Context, key string) (bool, error) {
	query, args, err := s.dialect.From(kvTable).
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"key": key}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build kv count query", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to count kv entries", err)
	}
	return count > 0, nil
}
