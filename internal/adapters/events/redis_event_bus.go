package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub, so
// notifications reach SSE streams served by any replica.
type RedisEventBus struct {
	client        *redis.Client
	subscriptions map[string]*redis.PubSub
	fanout        *fanout
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redis.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		fanout:        newFanout(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().
		Str("channel", channel).
		Int64("notification_id", event.Notification.ID).
		Msg("published notification event")
	return nil
}

// Subscribe subscribes to events on a channel
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error) {
	b.mu.Lock()
	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}
	eventChan, subscriberCount := b.fanout.add(channel)
	b.mu.Unlock()

	log.Debug().Str("channel", channel).Int("subscribers", subscriberCount).Msg("subscribed to channel")

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event entities.NotificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("failed to unmarshal event")
				continue
			}
			b.fanout.deliver(channel, &event)
		}
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, eventChan chan *entities.NotificationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.fanout.remove(channel, eventChan) {
		return
	}
	if pubsub, ok := b.subscriptions[channel]; ok {
		_ = pubsub.Close()
		delete(b.subscriptions, channel)
		log.Debug().Str("channel", channel).Msg("closed subscription")
	}
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close subscription %s: %w", channel, err))
		}
		delete(b.subscriptions, channel)
	}
	b.fanout.closeAll()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}

	log.Info().Msg("event bus closed")
	return nil
}
