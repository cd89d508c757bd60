package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/pulsegrid/components"
)

func testDampening(t *testing.T) (*DampeningField, components.Segment) {
	t.Helper()
	g := NewGrid(400, 400, 40)
	d := NewDampeningField(g, DefaultParams())
	return d, components.Segment{Orientation: components.Vertical, Col: 3, Row: 4}
}

func TestDampeningBurnsUnderSustainedCollision(t *testing.T) {
	dt := 1.0 / 60.0
	for _, k := range []int{1, 5, 12, 30} {
		d, seg := testDampening(t)
		var got float64
		for i := 0; i < k; i++ {
			got = d.Update(seg, 2, 0.8, dt)
		}
		want := math.Min(1.0, float64(k)*5*dt)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("after %d collision frames: dampening = %v, want %v", k, got, want)
		}
	}
}

func TestDampeningCollisionRequiresBothConditions(t *testing.T) {
	tests := []struct {
		name   string
		active int
		raw    float64
		burn   bool
	}{
		{"two sources bright", 2, 0.6, true},
		{"three sources bright", 3, 1.4, true},
		{"single bright source", 1, 0.95, false},
		{"two sources dim", 2, 0.5, false},
		{"no sources", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, seg := testDampening(t)
			got := d.Update(seg, tt.active, tt.raw, 0.1)
			if tt.burn && got <= 0 {
				t.Errorf("expected burn, dampening = %v", got)
			}
			if !tt.burn && got != 0 {
				t.Errorf("expected no burn, dampening = %v", got)
			}
		})
	}
}

func TestDampeningRecoversToZero(t *testing.T) {
	d, seg := testDampening(t)
	for i := 0; i < 20; i++ {
		d.Update(seg, 2, 1.5, 0.1)
	}
	if got := d.Get(seg); got != 1.0 {
		t.Fatalf("expected dampening at ceiling, got %v", got)
	}

	prev := d.Get(seg)
	for i := 0; i < 100; i++ {
		got := d.Update(seg, 0, 0, 0.05)
		if got > prev {
			t.Fatalf("dampening increased during recovery: %v -> %v", prev, got)
		}
		if got < 0 {
			t.Fatalf("dampening went negative: %v", got)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("expected full recovery, got %v", prev)
	}
}

func TestDampeningOrientationsIndependent(t *testing.T) {
	d, _ := testDampening(t)
	v := components.Segment{Orientation: components.Vertical, Col: 2, Row: 2}
	h := components.Segment{Orientation: components.Horizontal, Col: 2, Row: 2}

	d.Update(v, 2, 1, 0.1)
	if got := d.Get(h); got != 0 {
		t.Errorf("horizontal segment picked up vertical burn: %v", got)
	}
}

func TestDampeningReset(t *testing.T) {
	d, seg := testDampening(t)
	d.Update(seg, 2, 1, 0.1)
	d.Reset(NewGrid(800, 600, 40))

	if got := d.Get(seg); got != 0 {
		t.Errorf("dampening after reset = %v, want 0", got)
	}
	if d.Mean() != 0 || d.Scarred() != 0 {
		t.Errorf("expected clean field after reset")
	}
}

func TestDampeningOffGrid(t *testing.T) {
	d, _ := testDampening(t)
	off := components.Segment{Orientation: components.Horizontal, Col: 50, Row: 0}
	if got := d.Update(off, 3, 2, 1); got != 0 {
		t.Errorf("off-grid update = %v, want 0", got)
	}
}

func TestDisplayedNeverNegative(t *testing.T) {
	for _, raw := range []float64{0, 0.05, 0.4, 1, 2.7} {
		for _, damp := range []float64{0, 0.3, 1} {
			got := Displayed(raw, damp)
			if got < 0 {
				t.Errorf("Displayed(%v, %v) = %v", raw, damp, got)
			}
			if want := math.Max(0, raw-damp); got != want {
				t.Errorf("Displayed(%v, %v) = %v, want %v", raw, damp, got, want)
			}
		}
	}
}
