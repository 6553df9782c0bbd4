package services

import (
	"context"
	"time"
)

// SimulateLatency waits d, returning early with ctx.Err() on cancellation.
// A non-positive d returns immediately.
func SimulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
