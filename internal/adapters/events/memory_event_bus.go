package events

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
)

var errBusClosed = errors.New("event bus closed")

// MemoryEventBus delivers notification events within one process
type MemoryEventBus struct {
	fanout *fanout
	closed atomic.Bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{fanout: newFanout()}
}

func (b *MemoryEventBus) Publish(_ context.Context, channel string, event *entities.NotificationEvent) error {
	if b.closed.Load() {
		return errBusClosed
	}
	b.fanout.deliver(channel, event)
	return nil
}

// Subscribe returns a channel that closes when ctx is done or the bus closes
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error) {
	if b.closed.Load() {
		return nil, errBusClosed
	}
	ch, _ := b.fanout.add(channel)
	go func() {
		<-ctx.Done()
		b.fanout.remove(channel, ch)
	}()
	return ch, nil
}

func (b *MemoryEventBus) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		b.fanout.closeAll()
	}
	return nil
}
