package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig is used when dialing backing services at startup.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     6,
		InitialDelay:    200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 30 * time.Second,
	}
}

// LogFunc is called after each failed attempt that will be retried.
type LogFunc func(attempt int, err error, nextDelay time.Duration)

// Do executes fn with exponential backoff.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return DoWithLog(ctx, cfg, "", fn, nil)
}

// DoWithLog executes fn with exponential backoff, reporting each failed attempt to logFn.
func DoWithLog(ctx context.Context, cfg Config, name string, fn func() error, logFn LogFunc) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	prefix := ""
	if name != "" {
		prefix = name + ": "
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%sretry aborted after %d attempts: %w (last error: %v)", prefix, attempt-1, err, lastErr)
			}
			return fmt.Errorf("%sretry aborted: %w", prefix, err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if logFn != nil {
			logFn(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%sretry aborted after %d attempts: %w (last error: %v)", prefix, attempt, ctx.Err(), lastErr)
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("%smax retry attempts (%d) exceeded: %w", prefix, cfg.MaxAttempts, lastErr)
}
