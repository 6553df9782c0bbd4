package services

import (
	"sync"

	"github.com/jsimpson73/test-med-app/internal/domain/providers"
)

// SequenceGenerator hands out millisecond-derived ids that strictly increase
// in call order, even when several calls land in the same millisecond.
type SequenceGenerator struct {
	mu    sync.Mutex
	clock providers.Clock
	last  int64
}

var _ providers.IDGenerator = (*SequenceGenerator)(nil)

// NewSequenceGenerator creates a generator reading time from clock
func NewSequenceGenerator(clock providers.Clock) *SequenceGenerator {
	if clock == nil {
		clock = providers.SystemClock
	}
	return &SequenceGenerator{clock: clock}
}

// NextID returns max(now in ms, previous+1)
func (g *SequenceGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.clock.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
