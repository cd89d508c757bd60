package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/pulsegrid/components"
)

// quietParams disables ambient spawns so tests control every pulse.
func quietParams() Params {
	p := DefaultParams()
	p.AmbientRate = 0
	return p
}

type recordingSink struct {
	values map[components.Segment]float64
	order  []components.Segment
}

func newRecordingSink() *recordingSink {
	return &recordingSink{values: make(map[components.Segment]float64)}
}

func (r *recordingSink) DrawSegment(s components.Segment, v float64) {
	r.values[s] = v
	r.order = append(r.order, s)
}

func TestRingLeavesGridAfterOneSecond(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	f.SpawnAt(5, 5)

	// Age 1s: radius 10 is beyond every midpoint (max distance ~7.1)
	f.Step(0)
	for i := 0; i < 10; i++ {
		f.Step(0.1)
	}

	sink := newRecordingSink()
	f.Render(sink)
	for seg, v := range sink.values {
		if v != 0 {
			t.Errorf("segment %+v = %v at age 1s, want 0", seg, v)
		}
	}
	if f.PulseCount() != 1 {
		t.Errorf("pulse should still be live, count = %d", f.PulseCount())
	}
}

func TestRingPeakAfterPointThreeSeconds(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	f.SpawnAt(5, 5)
	f.Step(0)
	f.Step(0.3)

	pulses := f.Pulses()
	if len(pulses) != 1 {
		t.Fatalf("expected 1 pulse, got %d", len(pulses))
	}
	if math.Abs(pulses[0].Age-0.3) > 1e-12 {
		t.Fatalf("age = %v, want 0.3", pulses[0].Age)
	}

	// A point exactly 3 cells from the origin sits on the ring
	acc := NewAccumulator(f.Params())
	peak := acc.PulseContribution(5, 8, &pulses[0])
	if math.Abs(peak-0.994) > 1e-9 {
		t.Errorf("peak intensity = %v, want 0.994", peak)
	}

	// The brightest on-grid segment is just off the exact ring
	best := 0.0
	sink := newRecordingSink()
	f.Render(sink)
	for _, v := range sink.values {
		best = math.Max(best, v)
	}
	if best < 0.95 || best > 0.994 {
		t.Errorf("brightest segment = %v, want within [0.95, 0.994]", best)
	}
}

func TestCoincidentPulsesBurn(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	f.SpawnAt(2, 2)
	f.SpawnAt(2, 2)
	f.Step(0)

	dt := 1.0 / 60.0
	burned := false
	for frame := 0; frame < 30; frame++ {
		stats := f.Step(dt)
		if stats.Collisions > 0 {
			burned = true
			if stats.ScarredSegments == 0 {
				t.Errorf("frame %d burned %d segments but none scarred", frame, stats.Collisions)
			}
		}
	}
	if !burned {
		t.Fatal("coincident pulses never triggered a collision")
	}

	// Every contribution is doubled: the sample equals two single contributions
	pulses := f.Pulses()
	acc := NewAccumulator(f.Params())
	seg := components.Segment{Orientation: components.Horizontal, Col: 2, Row: 7}
	cx, cy := seg.Midpoint()
	s := acc.Accumulate(cx, cy, 0, 0, false, pulses)
	single := acc.PulseContribution(cx, cy, &pulses[0])
	if math.Abs(s.Raw-2*single) > 1e-12 {
		t.Errorf("raw = %v, want double single contribution %v", s.Raw, 2*single)
	}
	if single > 0.1 && s.ActiveSources != 2 {
		t.Errorf("ActiveSources = %d, want 2", s.ActiveSources)
	}
}

func TestSinglePulseNeverBurns(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	f.SpawnAt(2, 2)
	f.Step(0)

	for frame := 0; frame < 120; frame++ {
		if stats := f.Step(1.0 / 60.0); stats.Collisions != 0 {
			t.Fatalf("single pulse burned %d segments on frame %d", stats.Collisions, frame)
		}
	}
}

func TestParkedPointerNeverBurns(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)

	// Pointer parked on the midpoint of vertical segment (3, 3)
	seg := components.Segment{Orientation: components.Vertical, Col: 3, Row: 3}
	cx, cy := seg.Midpoint()
	f.SetPointer(cx*40+20, cy*40) // 0.5 cells right of the midpoint

	for frame := 0; frame < 600; frame++ {
		if fs := f.Step(1.0 / 60.0); fs.ScarredSegments != 0 {
			t.Fatalf("pointer-only field scarred %d segments on frame %d", fs.ScarredSegments, frame)
		}
		if d := f.Dampening(seg); d != 0 {
			t.Fatalf("pointer-only dampening = %v on frame %d", d, frame)
		}
	}

	want := (1 - 0.5/4) * 0.8
	if got := f.Value(seg); math.Abs(got-want) > 1e-12 {
		t.Errorf("displayed = %v, want %v", got, want)
	}
	if f.PulseCount() != 0 {
		t.Errorf("unexpected pulses: %d", f.PulseCount())
	}
}

func TestResizeResetsDampening(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	f.SpawnAt(2, 2)
	f.SpawnAt(2, 2)
	f.Step(0)
	for i := 0; i < 30; i++ {
		f.Step(1.0 / 60.0)
	}

	f.Resize(480, 320)
	g := f.Grid()
	if g.Cols != 12 || g.Rows != 8 {
		t.Fatalf("grid after resize = %dx%d, want 12x8", g.Cols, g.Rows)
	}
	g.ForEachSegment(func(s components.Segment) {
		if d := f.Dampening(s); d != 0 {
			t.Fatalf("segment %+v dampening = %v after resize", s, d)
		}
	})
}

func TestDegenerateSurfaceIsIdle(t *testing.T) {
	f := NewField(DefaultParams(), 0, -50, 1)
	f.Click(10, 10)

	var stats FrameStats
	for i := 0; i < 100; i++ {
		stats = f.Step(0.5)
	}
	if stats.Segments != 0 || stats.LitSegments != 0 {
		t.Errorf("degenerate surface produced segments: %+v", stats)
	}

	sink := newRecordingSink()
	f.Render(sink)
	if len(sink.order) != 0 {
		t.Errorf("rendered %d segments on empty grid", len(sink.order))
	}
}

func TestClickIsLatchedUntilNextStep(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	f.Click(101, 59) // snaps to (3, 1)

	if f.PulseCount() != 0 {
		t.Fatal("click spawned before the next frame")
	}
	f.Step(0)

	pulses := f.Pulses()
	if len(pulses) != 1 {
		t.Fatalf("expected 1 pulse after step, got %d", len(pulses))
	}
	if pulses[0].OriginCol != 3 || pulses[0].OriginRow != 1 {
		t.Errorf("origin = (%v, %v), want (3, 1)", pulses[0].OriginCol, pulses[0].OriginRow)
	}
	if pulses[0].Source != components.SourceExplicit {
		t.Errorf("source = %v, want explicit", pulses[0].Source)
	}
}

func TestClickWithoutSnapKeepsPrecision(t *testing.T) {
	p := quietParams()
	p.SnapClicks = false
	f := NewField(p, 400, 400, 1)
	f.Click(101, 59)
	f.Step(0)

	pulses := f.Pulses()
	if len(pulses) != 1 || pulses[0].OriginCol != 2.525 || pulses[0].OriginRow != 1.475 {
		t.Errorf("unsnapped click spawned %+v", pulses)
	}
}

func TestStateMachine(t *testing.T) {
	p := quietParams()
	p.Lifespan = 1
	f := NewField(p, 400, 400, 1)

	if s := f.Step(0.1); s.State != StateIdle {
		t.Fatalf("fresh field state = %v, want idle", s.State)
	}

	f.SetPointer(10, 10)
	s := f.Step(0.1)
	if s.State != StateActive || !s.StateChanged {
		t.Fatalf("pointer present: state = %v changed = %v", s.State, s.StateChanged)
	}

	f.ClearPointer()
	f.SpawnAt(1, 1)
	if s := f.Step(0.1); s.State != StateActive || s.StateChanged {
		t.Fatalf("pulse live: state = %v changed = %v", s.State, s.StateChanged)
	}

	// Pulse expires after its 1s lifespan
	for i := 0; i < 10; i++ {
		s = f.Step(0.1)
	}
	if s.State != StateIdle {
		t.Errorf("state after expiry = %v, want idle", s.State)
	}
}

func TestAmbientSpawnRate(t *testing.T) {
	p := DefaultParams()
	p.Lifespan = 1000
	p.MaxLivePulses = 0
	f := NewField(p, 400, 400, 42)

	dt := 1.0 / 60.0
	spawned := 0
	for i := 0; i < 60*200; i++ { // 200 simulated seconds
		spawned += f.Step(dt).Spawned
	}

	// Expect ~0.3/s * 200s = 60
	if spawned < 35 || spawned > 90 {
		t.Errorf("ambient spawns over 200s = %d, want about 60", spawned)
	}
}

func TestSameSeedSameFrames(t *testing.T) {
	run := func() []float64 {
		f := NewField(DefaultParams(), 400, 300, 99)
		f.SetPointer(120, 90)
		for i := 0; i < 600; i++ {
			f.Step(1.0 / 30.0)
		}
		sink := newRecordingSink()
		f.Render(sink)
		out := make([]float64, len(sink.order))
		for i, s := range sink.order {
			out[i] = sink.values[s]
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("segment count differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("segment %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRenderOrderAndCoverage(t *testing.T) {
	f := NewField(quietParams(), 120, 80, 1)
	f.Step(0)

	sink := newRecordingSink()
	f.Render(sink)
	g := f.Grid()
	if len(sink.order) != g.SegmentCount() {
		t.Fatalf("rendered %d segments, want %d", len(sink.order), g.SegmentCount())
	}
	if sink.order[0].Orientation != components.Vertical {
		t.Errorf("vertical segments should render first")
	}
	if last := sink.order[len(sink.order)-1]; last.Orientation != components.Horizontal {
		t.Errorf("horizontal segments should render last")
	}
}

func TestSetParamsCellSizeResizes(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	p := f.Params()
	p.CellSize = 20
	f.SetParams(p)

	if g := f.Grid(); g.Cols != 20 || g.Rows != 20 {
		t.Errorf("grid after cell size change = %dx%d, want 20x20", g.Cols, g.Rows)
	}
}

func TestResetClearsEverything(t *testing.T) {
	f := NewField(quietParams(), 400, 400, 1)
	f.SpawnAt(2, 2)
	f.SpawnAt(2, 2)
	f.Step(0)
	for i := 0; i < 20; i++ {
		f.Step(1.0 / 60.0)
	}
	f.SpawnAt(1, 1)
	f.Reset()

	if f.PulseCount() != 0 {
		t.Errorf("pulses after reset = %d", f.PulseCount())
	}
	f.Step(0)
	if f.PulseCount() != 0 {
		t.Errorf("queued spawn survived reset")
	}
}
