package systems

// Clock turns host frame timestamps into frame deltas.
// The first timestamp yields a zero delta.
type Clock struct {
	last     float64
	started  bool
	maxDelta float64
}

// NewClock creates a clock that clamps deltas to maxDelta seconds (0 = no clamp).
func NewClock(maxDelta float64) *Clock {
	return &Clock{maxDelta: maxDelta}
}

// Advance records a timestamp in seconds and returns the delta since the previous one.
// Timestamps that go backwards yield 0.
func (c *Clock) Advance(now float64) float64 {
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := now - c.last
	c.last = now
	if dt < 0 {
		return 0
	}
	if c.maxDelta > 0 && dt > c.maxDelta {
		return c.maxDelta
	}
	return dt
}
