package providers

import (
	"context"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to notification events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.NotificationEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSessionPrefix prefixes per-session notification channels.
const EventChannelSessionPrefix = "session:notifications:"

// GetSessionChannel returns the channel name for one session's notifications
func GetSessionChannel(sessionID string) string {
	return EventChannelSessionPrefix + sessionID
}
