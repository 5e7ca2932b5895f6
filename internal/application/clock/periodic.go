package clock

import "time"

// PeriodicEvent gates an action to at most once per interval.
// The zero value is ready to use.
type PeriodicEvent struct {
	lastTriggered time.Time
	triggered     bool
}

// TryTakeEvent reports whether wait has elapsed since the last true report.
// The first call always reports true. Every true report resets the
// reference time to now.
func (p *PeriodicEvent) TryTakeEvent(now time.Time, wait time.Duration) bool {
	if p.triggered && now.Sub(p.lastTriggered) < wait {
		return false
	}

	p.lastTriggered = now
	p.triggered = true
	return true
}
