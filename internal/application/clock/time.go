package clock

import "time"

// SmoothingFactor is the weight kept from the previous smoothed rate.
// The new instantaneous sample is weighted 1 - SmoothingFactor.
const SmoothingFactor = 0.95

// TimeState accumulates frame timing. It is stored in the resource
// registry and only advanced by the frame loop.
type TimeState struct {
	appStart       time.Time
	currentInstant time.Time
	totalTime      time.Duration
	previousUpdate time.Duration
	updateCount    uint64

	updatesPerSecond         float64
	updatesPerSecondSmoothed float64
}

// NewTimeState creates a TimeState anchored at now
func NewTimeState(now time.Time) *TimeState {
	return &TimeState{
		appStart:       now,
		currentInstant: now,
	}
}

// Update advances the state by one step of length elapsed.
// Negative durations are treated as zero.
func (t *TimeState) Update(elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}

	t.totalTime += elapsed
	// current instant is previous + elapsed, never re-sampled
	t.currentInstant = t.currentInstant.Add(elapsed)
	t.previousUpdate = elapsed

	dt := elapsed.Seconds()
	if dt > 0 {
		t.updatesPerSecond = 1.0 / dt
	} else {
		t.updatesPerSecond = 0
	}

	t.updatesPerSecondSmoothed = t.updatesPerSecondSmoothed*SmoothingFactor +
		t.updatesPerSecond*(1.0-SmoothingFactor)
	t.updateCount++
}

// AppStart returns the instant the state was created
func (t *TimeState) AppStart() time.Time {
	return t.appStart
}

// CurrentInstant returns the accumulated current timestamp
func (t *TimeState) CurrentInstant() time.Time {
	return t.currentInstant
}

// TotalTime returns the sum of all elapsed steps
func (t *TimeState) TotalTime() time.Duration {
	return t.totalTime
}

// PreviousUpdateTime returns the duration of the most recent step
func (t *TimeState) PreviousUpdateTime() time.Duration {
	return t.previousUpdate
}

// PreviousUpdateSeconds returns the most recent step in fractional seconds
func (t *TimeState) PreviousUpdateSeconds() float64 {
	return t.previousUpdate.Seconds()
}

// UpdateCount returns how many times Update has been called
func (t *TimeState) UpdateCount() uint64 {
	return t.updateCount
}

// UpdatesPerSecond returns the unsmoothed rate of the latest step
func (t *TimeState) UpdatesPerSecond() float64 {
	return t.updatesPerSecond
}

// UpdatesPerSecondSmoothed returns the exponentially smoothed rate
func (t *TimeState) UpdatesPerSecondSmoothed() float64 {
	return t.updatesPerSecondSmoothed
}
