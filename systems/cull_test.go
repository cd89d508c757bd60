package systems

import (
	"testing"

	"github.com/pthm-cable/pulsegrid/components"
)

func TestRingTouchesLattice(t *testing.T) {
	tests := []struct {
		name  string
		pulse components.Pulse
		want  bool
	}{
		{"fresh pulse on grid", components.Pulse{OriginCol: 5, OriginRow: 5, Age: 0, Lifespan: 50}, true},
		{"ring inside grid", components.Pulse{OriginCol: 5, OriginRow: 5, Age: 0.5, Lifespan: 50}, true},
		{"ring past far corner", components.Pulse{OriginCol: 5, OriginRow: 5, Age: 1, Lifespan: 50}, false},
		{"off-grid origin not yet arrived", components.Pulse{OriginCol: -30, OriginRow: 5, Age: 1, Lifespan: 50}, false},
		{"off-grid origin arriving", components.Pulse{OriginCol: -30, OriginRow: 5, Age: 2.9, Lifespan: 50}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ringTouchesLattice(&tt.pulse, 10, 2, 10, 10)
			if got != tt.want {
				t.Errorf("ringTouchesLattice = %v, want %v", got, tt.want)
			}
		})
	}
}

// Culling must never change what is displayed.
func TestCullingMatchesExhaustiveSweep(t *testing.T) {
	culled := DefaultParams()
	culled.Cull = true
	culled.MaxLivePulses = 0
	exhaustive := culled
	exhaustive.Cull = false

	a := NewField(culled, 640, 400, 2024)
	b := NewField(exhaustive, 640, 400, 2024)

	inputs := func(f *Field, frame int) {
		switch {
		case frame%45 == 0:
			f.Click(float64(frame%640), float64((frame*7)%400))
		case frame%90 == 10:
			f.SpawnAt(-4, float64(frame%12))
		}
		if frame%200 < 100 {
			f.SetPointer(float64(frame%640), 200)
		} else {
			f.ClearPointer()
		}
	}

	sawCulled := false
	for frame := 0; frame < 1500; frame++ {
		inputs(a, frame)
		inputs(b, frame)
		sa := a.Step(1.0 / 30.0)
		sb := b.Step(1.0 / 30.0)
		if sa.CulledPulses > 0 {
			sawCulled = true
		}
		if sa.Pulses != sb.Pulses {
			t.Fatalf("frame %d: pulse counts diverged %d vs %d", frame, sa.Pulses, sb.Pulses)
		}
	}
	if !sawCulled {
		t.Fatal("test never exercised culling")
	}

	ra, rb := newRecordingSink(), newRecordingSink()
	a.Render(ra)
	b.Render(rb)
	for seg, va := range ra.values {
		if vb := rb.values[seg]; va != vb {
			t.Errorf("segment %+v: culled %v, exhaustive %v", seg, va, vb)
		}
	}
}
