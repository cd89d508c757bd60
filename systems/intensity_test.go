package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/pulsegrid/components"
)

func TestPointerContribution(t *testing.T) {
	acc := NewAccumulator(DefaultParams())

	tests := []struct {
		name string
		dist float64
		want float64
	}{
		{"on pointer", 0, 0.8},
		{"half radius", 2, 0.4},
		{"at radius", 4, 0},
		{"beyond radius", 6, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := acc.PointerContribution(5+tt.dist, 5, 5, 5)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("PointerContribution at d=%v = %v, want %v", tt.dist, got, tt.want)
			}
		})
	}
}

func TestPulseContributionRing(t *testing.T) {
	acc := NewAccumulator(DefaultParams())
	p := &components.Pulse{OriginCol: 5, OriginRow: 5, Age: 0.3, Lifespan: 50}

	// Radius 3: peak on the ring, falling off linearly to 0 at ring width 2
	decay := 1 - 0.3/50
	tests := []struct {
		name string
		cx   float64
		want float64
	}{
		{"on ring", 8, decay},
		{"half ring width inside", 7, 0.5 * decay},
		{"half ring width outside", 9, 0.5 * decay},
		{"ring edge", 10, 0},
		{"origin", 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := acc.PulseContribution(tt.cx, 5, p)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PulseContribution(%v, 5) = %v, want %v", tt.cx, got, tt.want)
			}
		})
	}
}

func TestPulseAtOriginIsWellDefined(t *testing.T) {
	acc := NewAccumulator(DefaultParams())
	p := &components.Pulse{OriginCol: 2, OriginRow: 2, Age: 0, Lifespan: 50}

	got := acc.PulseContribution(2, 2, p)
	if math.IsNaN(got) || math.Abs(got-1) > 1e-12 {
		t.Errorf("contribution at distance 0, age 0 = %v, want 1", got)
	}
}

func TestAccumulateCountsActiveSources(t *testing.T) {
	acc := NewAccumulator(DefaultParams())
	pulses := []components.Pulse{
		{OriginCol: 2, OriginRow: 2, Age: 0.2, Lifespan: 50},
		{OriginCol: 2, OriginRow: 2, Age: 0.2, Lifespan: 50},
		{OriginCol: 40, OriginRow: 40, Age: 0.2, Lifespan: 50}, // far away
	}

	// Midpoint 2 cells right of origin sits on the ring of both coincident pulses
	s := acc.Accumulate(4, 2, 0, 0, false, pulses)
	single := acc.PulseContribution(4, 2, &pulses[0])

	if s.ActiveSources != 2 {
		t.Errorf("ActiveSources = %d, want 2", s.ActiveSources)
	}
	if math.Abs(s.Raw-2*single) > 1e-12 {
		t.Errorf("Raw = %v, want %v", s.Raw, 2*single)
	}
}

func TestAccumulateWeakContributionNotActive(t *testing.T) {
	acc := NewAccumulator(DefaultParams())

	// Pointer at distance 3.6 contributes 0.08: counted in the sum, not as a source
	s := acc.Accumulate(3.6, 0, 0, 0, true, nil)
	if s.ActiveSources != 0 {
		t.Errorf("ActiveSources = %d, want 0", s.ActiveSources)
	}
	if math.Abs(s.Raw-0.08) > 1e-9 {
		t.Errorf("Raw = %v, want 0.08", s.Raw)
	}
}

func TestAccumulateIgnoresAbsentPointer(t *testing.T) {
	acc := NewAccumulator(DefaultParams())
	s := acc.Accumulate(1, 1, 1, 1, false, nil)
	if s.Raw != 0 || s.ActiveSources != 0 {
		t.Errorf("absent pointer contributed %+v", s)
	}
}
