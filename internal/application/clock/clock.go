// Package clock provides time sources and frame timing for the update loop.
package clock

import "time"

// Clock produces timestamps for the frame loop.
type Clock interface {
	Now() time.Time
}

// System reads the monotonic wall clock.
type System struct{}

// Now returns the current time with a monotonic reading
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to.
// Used by tests and by replay playback.
type Manual struct {
	now time.Time
}

// NewManual creates a manual clock starting at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time
func (m *Manual) Now() time.Time {
	return m.now
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
