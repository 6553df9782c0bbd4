package events

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationEvent(id int64) *entities.NotificationEvent {
	return &entities.NotificationEvent{
		SessionID: "sid-1",
		Notification: entities.Notification{
			ID:      id,
			Kind:    entities.NotificationSuccess,
			Message: "Appointment booked successfully with Dr. Michael Chen on 2025-01-10 at 09:00 AM",
		},
	}
}

func receive(t *testing.T, ch <-chan *entities.NotificationEvent) *entities.NotificationEvent {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "channel closed")
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func exerciseBus(t *testing.T, bus providers.EventBus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := providers.GetSessionChannel("sid-1")
	a, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	b, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	other, err := bus.Subscribe(ctx, providers.GetSessionChannel("sid-2"))
	require.NoError(t, err)

	// redis subscriptions are established asynchronously
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, bus.Publish(ctx, channel, notificationEvent(7)))

	assert.Equal(t, int64(7), receive(t, a).Notification.ID)
	assert.Equal(t, int64(7), receive(t, b).Notification.ID)
	select {
	case e := <-other:
		t.Fatalf("unexpected event on other session: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryEventBus(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()
	exerciseBus(t, bus)
}

func TestMemoryEventBus_UnsubscribeOnCancel(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, "c")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestMemoryEventBus_DropsWhenSubscriberFull(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx := context.Background()

	ch, err := bus.Subscribe(ctx, "c")
	require.NoError(t, err)
	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, bus.Publish(ctx, "c", notificationEvent(int64(i))))
	}
	assert.Len(t, ch, subscriberBuffer)

	require.NoError(t, bus.Close())
	assert.Error(t, bus.Publish(ctx, "c", notificationEvent(1)))
	_, err = bus.Subscribe(ctx, "c")
	assert.Error(t, err)
}

func TestRedisEventBus(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	bus := NewRedisEventBus(client)
	defer bus.Close()
	exerciseBus(t, bus)
}
