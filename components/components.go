// Package components defines the value types shared by the field simulation,
// its hosts and its renderers.
package components

// PulseSource records why a pulse was spawned.
type PulseSource uint8

const (
	SourceAmbient  PulseSource = iota // random spawn from the ambient roll
	SourceExplicit                    // click or caller-requested spawn
)

// String returns the source name used in logs and telemetry.
func (s PulseSource) String() string {
	switch s {
	case SourceAmbient:
		return "ambient"
	case SourceExplicit:
		return "explicit"
	default:
		return "unknown"
	}
}

// Pulse is an expanding ring of brightness centered on a grid coordinate.
// Pulses are ECS components owned by the pulse registry.
type Pulse struct {
	OriginCol float64 // grid units, may be fractional or off-grid
	OriginRow float64
	Age       float64 // seconds since spawn
	Lifespan  float64 // seconds; the pulse is live while Age < Lifespan
	Seq       uint64  // spawn order, lower is older
	Source    PulseSource
}

// Live reports whether the pulse has time left.
func (p Pulse) Live() bool {
	return p.Age < p.Lifespan
}

// Radius returns the ring radius in grid units for the given propagation speed.
func (p Pulse) Radius(speed float64) float64 {
	return p.Age * speed
}

// Decay returns the linear fade-out factor in [0, 1].
func (p Pulse) Decay() float64 {
	if p.Lifespan <= 0 {
		return 0
	}
	return max(0, 1-p.Age/p.Lifespan)
}

// SpawnRequest is a latched explicit spawn waiting for the next frame.
type SpawnRequest struct {
	Col, Row float64
}
