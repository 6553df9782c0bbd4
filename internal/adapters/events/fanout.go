package events

import (
	"sync"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 100

// fanout tracks local subscriber channels and delivers without blocking.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.NotificationEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.NotificationEvent]struct{})}
}

func (f *fanout) add(channel string) (chan *entities.NotificationEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.NotificationEvent]struct{})
	}
	ch := make(chan *entities.NotificationEvent, subscriberBuffer)
	f.subscribers[channel][ch] = struct{}{}
	return ch, len(f.subscribers[channel])
}

// remove closes ch and reports whether channel has no subscribers left.
func (f *fanout) remove(channel string, ch chan *entities.NotificationEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs, ok := f.subscribers[channel]
	if !ok {
		return false
	}
	if _, ok := subs[ch]; !ok {
		return false
	}
	delete(subs, ch)
	close(ch)

	if len(subs) == 0 {
		delete(f.subscribers, channel)
		return true
	}
	return false
}

func (f *fanout) deliver(channel string, event *entities.NotificationEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for sub := range f.subscribers[channel] {
		e := *event
		select {
		case sub <- &e:
		default:
			log.Warn().
				Str("channel", channel).
				Int64("notification_id", event.Notification.ID).
				Msg("subscriber channel full, skipping event")
		}
	}
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for channel, subs := range f.subscribers {
		for sub := range subs {
			close(sub)
		}
		delete(f.subscribers, channel)
	}
}
