package systems

// Params holds the tuning constants for a Field.
// Zero values are not usable; start from DefaultParams.
type Params struct {
	CellSize float64 // surface pixels per grid cell

	// Pulses
	Lifespan         float64 // seconds
	PropagationSpeed float64 // grid cells per second
	RingWidth        float64 // grid cells
	AmbientRate      float64 // expected ambient spawns per second
	MaxLivePulses    int     // oldest dropped beyond this (0 = unbounded)
	SnapClicks       bool    // round click spawns to the nearest lattice node

	// Pointer
	PointerRadius float64 // grid cells
	PointerWeight float64

	// Accumulation and dampening
	ActiveThreshold     float64 // a contribution above this counts as an active source
	CollisionIntensity  float64 // raw intensity above this can burn
	MinCollisionSources int     // active sources needed to burn
	BurnRate            float64 // dampening gained per second during collision
	RecoverRate         float64 // dampening lost per second otherwise
	DampeningCeiling    float64

	// Cull skips pulses whose ring cannot reach the lattice. Output is identical.
	Cull bool
}

// DefaultParams returns the reference tuning.
func DefaultParams() Params {
	return Params{
		CellSize:            40,
		Lifespan:            50,
		PropagationSpeed:    10,
		RingWidth:           2.0,
		AmbientRate:         0.3,
		MaxLivePulses:       64,
		SnapClicks:          true,
		PointerRadius:       4,
		PointerWeight:       0.8,
		ActiveThreshold:     0.1,
		CollisionIntensity:  0.5,
		MinCollisionSources: 2,
		BurnRate:            5,
		RecoverRate:         0.5,
		DampeningCeiling:    1.0,
		Cull:                true,
	}
}
