package systems

import "github.com/pthm-cable/pulsegrid/components"

// DampeningField stores the persistent burn value of every segment.
// Vertical and horizontal segments live in separate flat arrays indexed by
// Grid.Index, so no segment identity is shared between orientations.
type DampeningField struct {
	grid       Grid
	vertical   []float64
	horizontal []float64

	burnRate    float64
	recoverRate float64
	ceiling     float64
	minSources  int
	threshold   float64

	// Segments whose last update burned
	burning int
}

// NewDampeningField creates a field sized for g with every value at 0.
func NewDampeningField(g Grid, p Params) *DampeningField {
	d := &DampeningField{}
	d.SetParams(p)
	d.Reset(g)
	return d
}

// SetParams changes rates and collision thresholds without touching stored values.
func (d *DampeningField) SetParams(p Params) {
	d.burnRate = p.BurnRate
	d.recoverRate = p.RecoverRate
	d.ceiling = p.DampeningCeiling
	d.minSources = p.MinCollisionSources
	d.threshold = p.CollisionIntensity
}

// Reset discards every stored value and resizes for g.
// Old values are never remapped onto the new geometry.
func (d *DampeningField) Reset(g Grid) {
	d.grid = g
	d.vertical = make([]float64, g.VerticalCount())
	d.horizontal = make([]float64, g.HorizontalCount())
	d.burning = 0
}

func (d *DampeningField) slot(s components.Segment) *float64 {
	if !d.grid.Contains(s) {
		return nil
	}
	idx := d.grid.Index(s)
	if s.Orientation == components.Vertical {
		return &d.vertical[idx]
	}
	return &d.horizontal[idx]
}

// Update advances the segment's dampening by one frame and returns the new value.
// A collision (several active sources with high combined intensity) burns fast
// toward the ceiling; anything else recovers slowly toward 0.
// Segments outside the grid report 0.
func (d *DampeningField) Update(s components.Segment, activeSources int, raw, dt float64) float64 {
	v := d.slot(s)
	if v == nil {
		return 0
	}
	*v = d.step(*v, activeSources, raw, dt)
	return *v
}

// updateAt is Update for callers that already hold the flat index.
func (d *DampeningField) updateAt(o components.Orientation, idx, activeSources int, raw, dt float64) float64 {
	arr := d.vertical
	if o == components.Horizontal {
		arr = d.horizontal
	}
	arr[idx] = d.step(arr[idx], activeSources, raw, dt)
	return arr[idx]
}

func (d *DampeningField) step(v float64, activeSources int, raw, dt float64) float64 {
	if IsCollision(activeSources, d.minSources, raw, d.threshold) {
		d.burning++
		return min(v+d.burnRate*dt, d.ceiling)
	}
	return max(v-d.recoverRate*dt, 0)
}

// Get returns the stored value for a segment, 0 if it is not on the grid.
func (d *DampeningField) Get(s components.Segment) float64 {
	v := d.slot(s)
	if v == nil {
		return 0
	}
	return *v
}

// Mean returns the average dampening over all segments.
func (d *DampeningField) Mean() float64 {
	n := len(d.vertical) + len(d.horizontal)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range d.vertical {
		sum += v
	}
	for _, v := range d.horizontal {
		sum += v
	}
	return sum / float64(n)
}

// Scarred counts segments with any dampening left.
func (d *DampeningField) Scarred() int {
	n := 0
	for _, v := range d.vertical {
		if v > 0 {
			n++
		}
	}
	for _, v := range d.horizontal {
		if v > 0 {
			n++
		}
	}
	return n
}

// takeBurning returns the number of burning updates since the last call.
func (d *DampeningField) takeBurning() int {
	n := d.burning
	d.burning = 0
	return n
}

// IsCollision reports whether a segment's sources amount to a collision:
// at least minSources active contributions and combined intensity above threshold.
func IsCollision(activeSources, minSources int, raw, threshold float64) bool {
	return activeSources >= minSources && raw > threshold
}

// Displayed returns the visible intensity after dampening, never negative.
func Displayed(raw, dampening float64) float64 {
	return max(0, raw-dampening)
}
