package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jsimpson73/test-med-app/pkg/config"
	"github.com/jsimpson73/test-med-app/pkg/retry"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client represents a Redis client
type Client struct {
	client *redis.Client
}

// NewClient creates a new Redis client and waits for the server to answer PING
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"Redis",
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return client.Ping(pingCtx).Err()
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Redis connection attempt failed")
		},
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Str("addr", cfg.RedisAddr()).Msg("connected to Redis")
	return &Client{client: client}, nil
}

// Client returns the underlying Redis client
func (c *Client) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifies the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
