// Package clockwork wraps the two time primitives the appliance depends on:
// a monotonic millisecond counter and a network time query. Both are behind
// small interfaces so every component above them is testable without
// sleeping or touching the network.
package clockwork

import "time"

// Clock is a monotonic millisecond counter. Values never decrease.
type Clock interface {
	NowMillis() int64
}

// TimeSource answers "what is the wall-clock time right now" with a bounded
// query against an external reference. Returns epoch seconds (UTC).
type TimeSource interface {
	QueryTime(timeout time.Duration) (int64, error)
}

// SystemClock counts milliseconds since it was created, using Go's
// monotonic clock reading so wall-clock adjustments cannot move it.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a SystemClock anchored at the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowMillis returns milliseconds elapsed since the clock was created.
func (c *SystemClock) NowMillis() int64 {
	return time.Since(c.start).Milliseconds()
}
