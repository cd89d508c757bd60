package systems

import (
	"math/rand"

	"github.com/pthm-cable/pulsegrid/components"
)

// State is the coarse activity state of a field.
type State uint8

const (
	StateIdle   State = iota // no pulses and no pointer
	StateActive              // at least one pulse or a pointer on the surface
)

// String returns "idle" or "active".
func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// SegmentSink receives the displayed intensity of every segment, once per frame.
type SegmentSink interface {
	DrawSegment(s components.Segment, value float64)
}

// FrameStats summarizes one Step.
type FrameStats struct {
	Frame        uint64
	DT           float64
	SimTime      float64
	State        State
	StateChanged bool

	Pulses       int // live after the frame
	CulledPulses int // live pulses skipped by the sweep
	Spawned      int
	Expired      int
	Dropped      int

	Segments         int
	LitSegments      int // displayed > 0
	OverloadSegments int // displayed > 1
	Collisions       int // segments that burned this frame
	ScarredSegments  int // dampening > 0 after the frame
	MeanDampening    float64
	PeakDisplayed    float64
}

// Field is the frame-clocked grid-wave simulation. All state belongs to the
// instance; a Field is not safe for concurrent use and is driven by a single
// host loop.
type Field struct {
	params Params
	grid   Grid
	rng    *rand.Rand

	pulses    *PulseRegistry
	dampening *DampeningField
	acc       Accumulator

	pointer components.Pointer
	pending []components.SpawnRequest

	// Displayed values from the last frame, laid out like the dampening arrays
	vertical   []float64
	horizontal []float64

	// Per-frame pulse snapshot, reused across frames
	frame []components.Pulse

	state   State
	simTime float64
	frames  uint64
}

// NewField creates a field for a width x height pixel surface.
// The seed drives ambient spawns; equal seeds and inputs give equal frames.
func NewField(p Params, width, height float64, seed int64) *Field {
	f := &Field{
		params:    p,
		rng:       rand.New(rand.NewSource(seed)),
		pulses:    NewPulseRegistry(p.Lifespan, p.MaxLivePulses),
		acc:       NewAccumulator(p),
		dampening: NewDampeningField(Grid{}, p),
	}
	f.Resize(width, height)
	return f
}

// Resize rebuilds the grid for a new surface size and discards every
// per-segment value. Pulses survive; their grid coordinates are unchanged.
func (f *Field) Resize(width, height float64) Grid {
	f.grid = NewGrid(width, height, f.params.CellSize)
	f.dampening.Reset(f.grid)
	f.vertical = make([]float64, f.grid.VerticalCount())
	f.horizontal = make([]float64, f.grid.HorizontalCount())
	return f.grid
}

// Grid returns the current lattice.
func (f *Field) Grid() Grid {
	return f.grid
}

// Params returns the current tuning.
func (f *Field) Params() Params {
	return f.params
}

// SetParams replaces the tuning. A cell size change resizes the grid,
// which resets dampening; other changes keep all state.
func (f *Field) SetParams(p Params) {
	resize := p.CellSize != f.params.CellSize
	f.params = p
	f.acc = NewAccumulator(p)
	f.dampening.SetParams(p)
	f.pulses.SetLimits(p.Lifespan, p.MaxLivePulses)
	if resize {
		f.Resize(f.grid.Width, f.grid.Height)
	}
}

// SetPointer records the pointer position in surface pixels.
func (f *Field) SetPointer(px, py float64) {
	f.pointer = components.Pointer{X: px, Y: py, Present: true}
}

// ClearPointer marks the pointer as absent.
func (f *Field) ClearPointer() {
	f.pointer = components.Pointer{}
}

// Pointer returns the latched pointer state.
func (f *Field) Pointer() components.Pointer {
	return f.pointer
}

// Click queues a pulse at a surface pixel position. It spawns at the start of
// the next Step, snapped to the nearest lattice node when SnapClicks is set.
func (f *Field) Click(px, py float64) {
	var col, row float64
	if f.params.SnapClicks {
		col, row = f.grid.SnapToGrid(px, py)
	} else {
		col, row = f.grid.ToGrid(px, py)
	}
	f.SpawnAt(col, row)
}

// SpawnAt queues a pulse at a grid coordinate for the next Step.
func (f *Field) SpawnAt(col, row float64) {
	f.pending = append(f.pending, components.SpawnRequest{Col: col, Row: row})
}

// Reset removes every pulse, queued spawn and dampening value.
func (f *Field) Reset() {
	f.pulses.Clear()
	f.pulses.TakeCounters()
	f.pending = f.pending[:0]
	f.Resize(f.grid.Width, f.grid.Height)
}

// Step advances the simulation by dt seconds and recomputes every segment.
func (f *Field) Step(dt float64) FrameStats {
	if dt < 0 {
		dt = 0
	}
	f.frames++
	f.simTime += dt

	// Inputs latched since the previous frame
	for _, req := range f.pending {
		f.pulses.SpawnAt(req.Col, req.Row)
	}
	f.pending = f.pending[:0]

	f.pulses.Tick(dt)

	if f.rng.Float64() < f.params.AmbientRate*dt {
		f.pulses.SpawnAmbient(f.rng, f.grid)
	}

	f.frame = f.pulses.Snapshot(f.frame[:0])
	live := len(f.frame)
	if f.params.Cull {
		f.frame = cullPulses(f.frame, f.params.PropagationSpeed, f.params.RingWidth, f.grid)
	}

	stats := f.sweep(dt)

	counters := f.pulses.TakeCounters()
	stats.Frame = f.frames
	stats.DT = dt
	stats.SimTime = f.simTime
	stats.Pulses = live
	stats.CulledPulses = live - len(f.frame)
	stats.Spawned = counters.Spawned
	stats.Expired = counters.Expired
	stats.Dropped = counters.Dropped
	stats.Collisions = f.dampening.takeBurning()
	stats.MeanDampening = f.dampening.Mean()
	stats.ScarredSegments = f.dampening.Scarred()

	prev := f.state
	f.state = StateIdle
	if live > 0 || f.pointer.Present {
		f.state = StateActive
	}
	stats.State = f.state
	stats.StateChanged = prev != f.state

	return stats
}

// sweep evaluates every segment: accumulate, dampen, store displayed value.
func (f *Field) sweep(dt float64) FrameStats {
	var stats FrameStats
	g := f.grid
	if g.Empty() {
		return stats
	}

	px, py := g.ToGrid(f.pointer.X, f.pointer.Y)
	hasPointer := f.pointer.Present

	record := func(v float64) {
		if v > 0 {
			stats.LitSegments++
		}
		if v > 1 {
			stats.OverloadSegments++
		}
		if v > stats.PeakDisplayed {
			stats.PeakDisplayed = v
		}
	}

	for i := 0; i <= g.Cols; i++ {
		for j := 0; j < g.Rows; j++ {
			idx := i*g.Rows + j
			s := f.acc.Accumulate(float64(i), float64(j)+0.5, px, py, hasPointer, f.frame)
			d := f.dampening.updateAt(components.Vertical, idx, s.ActiveSources, s.Raw, dt)
			v := Displayed(s.Raw, d)
			f.vertical[idx] = v
			record(v)
		}
	}

	for j := 0; j <= g.Rows; j++ {
		for i := 0; i < g.Cols; i++ {
			idx := j*g.Cols + i
			s := f.acc.Accumulate(float64(i)+0.5, float64(j), px, py, hasPointer, f.frame)
			d := f.dampening.updateAt(components.Horizontal, idx, s.ActiveSources, s.Raw, dt)
			v := Displayed(s.Raw, d)
			f.horizontal[idx] = v
			record(v)
		}
	}

	stats.Segments = g.SegmentCount()
	return stats
}

// Render hands every segment and its displayed value from the last Step to sink,
// vertical segments first.
func (f *Field) Render(sink SegmentSink) {
	g := f.grid
	if g.Empty() {
		return
	}
	for i := 0; i <= g.Cols; i++ {
		for j := 0; j < g.Rows; j++ {
			seg := components.Segment{Orientation: components.Vertical, Col: i, Row: j}
			sink.DrawSegment(seg, f.vertical[i*g.Rows+j])
		}
	}
	for j := 0; j <= g.Rows; j++ {
		for i := 0; i < g.Cols; i++ {
			seg := components.Segment{Orientation: components.Horizontal, Col: i, Row: j}
			sink.DrawSegment(seg, f.horizontal[j*g.Cols+i])
		}
	}
}

// Value returns a segment's displayed intensity from the last Step.
func (f *Field) Value(s components.Segment) float64 {
	if !f.grid.Contains(s) {
		return 0
	}
	if s.Orientation == components.Vertical {
		return f.vertical[f.grid.Index(s)]
	}
	return f.horizontal[f.grid.Index(s)]
}

// Dampening returns a segment's current dampening.
func (f *Field) Dampening(s components.Segment) float64 {
	return f.dampening.Get(s)
}

// Pulses returns a copy of every live pulse.
func (f *Field) Pulses() []components.Pulse {
	return f.pulses.Snapshot(nil)
}

// PulseCount returns the number of live pulses.
func (f *Field) PulseCount() int {
	return f.pulses.Len()
}

// State returns the activity state after the last Step.
func (f *Field) State() State {
	return f.state
}

// SimTime returns the accumulated simulated seconds.
func (f *Field) SimTime() float64 {
	return f.simTime
}
