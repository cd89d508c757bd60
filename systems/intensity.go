package systems

import (
	"math"

	"github.com/pthm-cable/pulsegrid/components"
)

// Sample is the accumulated brightness at one segment for one frame.
type Sample struct {
	Raw           float64 // sum of all contributions, may exceed 1
	ActiveSources int     // contributions above the active threshold
}

// Accumulator sums pointer and pulse contributions at segment midpoints.
type Accumulator struct {
	pointerRadius   float64
	pointerWeight   float64
	speed           float64
	ringWidth       float64
	activeThreshold float64
}

// NewAccumulator creates an accumulator from the field parameters.
func NewAccumulator(p Params) Accumulator {
	return Accumulator{
		pointerRadius:   p.PointerRadius,
		pointerWeight:   p.PointerWeight,
		speed:           p.PropagationSpeed,
		ringWidth:       p.RingWidth,
		activeThreshold: p.ActiveThreshold,
	}
}

// PointerContribution returns the brightness the pointer adds at (cx, cy).
// px, py are the pointer position in grid units.
func (a Accumulator) PointerContribution(cx, cy, px, py float64) float64 {
	d := math.Hypot(cx-px, cy-py)
	if d >= a.pointerRadius {
		return 0
	}
	return (1 - d/a.pointerRadius) * a.pointerWeight
}

// PulseContribution returns the brightness a pulse ring adds at (cx, cy).
// The ring is a band of ringWidth around radius age*speed that fades linearly
// over the pulse's life.
func (a Accumulator) PulseContribution(cx, cy float64, p *components.Pulse) float64 {
	dist := math.Hypot(cx-p.OriginCol, cy-p.OriginRow)
	diff := math.Abs(dist - p.Radius(a.speed))
	if diff >= a.ringWidth {
		return 0
	}
	return (1 - diff/a.ringWidth) * p.Decay()
}

// Accumulate computes the sample at (cx, cy). pointer is in grid units and
// ignored when hasPointer is false.
func (a Accumulator) Accumulate(cx, cy, px, py float64, hasPointer bool, pulses []components.Pulse) Sample {
	var s Sample

	if hasPointer {
		s.add(a.PointerContribution(cx, cy, px, py), a.activeThreshold)
	}

	for i := range pulses {
		s.add(a.PulseContribution(cx, cy, &pulses[i]), a.activeThreshold)
	}

	return s
}

func (s *Sample) add(c, threshold float64) {
	if c <= 0 {
		return
	}
	s.Raw += c
	if c > threshold {
		s.ActiveSources++
	}
}
