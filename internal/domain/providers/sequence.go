package providers

import "time"

// IDGenerator hands out identifiers that are distinct and increasing in call order.
type IDGenerator interface {
	NextID() int64
}

// Clock abstracts wall-clock time for timestamps and "today".
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the real clock.
var SystemClock Clock = ClockFunc(time.Now)
