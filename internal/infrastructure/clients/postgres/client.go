package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jsimpson73/test-med-app/pkg/config"
	"github.com/jsimpson73/test-med-app/pkg/retry"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Client represents a PostgreSQL database client
type Client struct {
	db *sql.DB
}

// NewClient creates a new PostgreSQL client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"PostgreSQL",
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return db.PingContext(pingCtx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("PostgreSQL connection attempt failed")
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("connected to PostgreSQL")
	return &Client{db: db}, nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
