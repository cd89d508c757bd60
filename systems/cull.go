package systems

import (
	"math"

	"github.com/pthm-cable/pulsegrid/components"
)

// cullMargin keeps culling conservative against rounding in the distance math.
const cullMargin = 1e-9

// ringTouchesLattice reports whether any point of the lattice extent
// [0,maxCol] x [0,maxRow] can lie within ringWidth of the pulse ring.
// When it returns false the pulse contributes exactly 0 to every segment.
func ringTouchesLattice(p *components.Pulse, speed, ringWidth, maxCol, maxRow float64) bool {
	r := p.Radius(speed)
	near := distToRect(p.OriginCol, p.OriginRow, maxCol, maxRow)
	far := farthestInRect(p.OriginCol, p.OriginRow, maxCol, maxRow)

	// Every midpoint has near <= dist <= far, so diff >= ringWidth everywhere.
	if r-far >= ringWidth+cullMargin {
		return false
	}
	if near-r >= ringWidth+cullMargin {
		return false
	}
	return true
}

// distToRect is the distance from (x, y) to the nearest point of [0,w] x [0,h].
func distToRect(x, y, w, h float64) float64 {
	dx := max(0, -x, x-w)
	dy := max(0, -y, y-h)
	return math.Hypot(dx, dy)
}

// farthestInRect is the distance from (x, y) to the farthest corner of [0,w] x [0,h].
func farthestInRect(x, y, w, h float64) float64 {
	dx := max(math.Abs(x), math.Abs(x-w))
	dy := max(math.Abs(y), math.Abs(y-h))
	return math.Hypot(dx, dy)
}

// cullPulses keeps pulses whose ring can reach the lattice, filtering in place.
func cullPulses(pulses []components.Pulse, speed, ringWidth float64, g Grid) []components.Pulse {
	maxCol, maxRow := g.Bounds()
	kept := pulses[:0]
	for i := range pulses {
		if ringTouchesLattice(&pulses[i], speed, ringWidth, maxCol, maxRow) {
			kept = append(kept, pulses[i])
		}
	}
	return kept
}
