package skycity

import "time"

// Clock produces per-tick elapsed-time deltas from the monotonic clock.
// Deltas are never negative.
type Clock struct {
	last time.Time
}

// NewClock creates a Clock whose first Tick measures from now.
func NewClock() *Clock {
	return &Clock{last: time.Now()}
}

// Tick returns the seconds elapsed since the previous Tick (or Reset),
// clamped to >= 0, and advances the reference point.
func (c *Clock) Tick() float64 {
	now := time.Now()
	delta := now.Sub(c.last).Seconds()
	c.last = now
	if delta < 0 {
		delta = 0
	}
	return delta
}

// Reset moves the reference point to now without reporting a delta.
func (c *Clock) Reset() {
	c.last = time.Now()
}

// Tick is the per-frame time snapshot passed to every subsystem update.
// Elapsed is total seconds since the show started; Delta is the seconds
// covered by this frame.
type Tick struct {
	Elapsed float64
	Delta   float64
}
