package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pulsegrid/components"
)

// PulseRegistry owns every live pulse. Pulses are stored as ECS entities so
// aging and reaping run as a single filtered query per frame.
type PulseRegistry struct {
	world  *ecs.World
	mapper *ecs.Map1[components.Pulse]
	filter *ecs.Filter1[components.Pulse]

	lifespan float64
	maxLive  int

	count   int
	nextSeq uint64

	// Counters since the last TakeCounters call
	spawned int
	expired int
	dropped int

	// Scratch buffer for entities removed after query iteration
	toRemove []ecs.Entity
}

// NewPulseRegistry creates an empty registry.
// maxLive caps the live pulse count; 0 disables the cap.
func NewPulseRegistry(lifespan float64, maxLive int) *PulseRegistry {
	world := ecs.NewWorld()
	return &PulseRegistry{
		world:    world,
		mapper:   ecs.NewMap1[components.Pulse](world),
		filter:   ecs.NewFilter1[components.Pulse](world),
		lifespan: lifespan,
		maxLive:  maxLive,
	}
}

// SetLimits updates the lifespan for future spawns and the live cap.
// Existing pulses keep the lifespan they were born with.
func (r *PulseRegistry) SetLimits(lifespan float64, maxLive int) {
	r.lifespan = lifespan
	r.maxLive = maxLive
	r.enforceCap()
}

// SpawnAt appends a pulse at the given grid coordinate. Coordinates are not
// clamped: a pulse may start off-grid and propagate into view.
func (r *PulseRegistry) SpawnAt(col, row float64) {
	r.spawn(col, row, components.SourceExplicit)
}

// SpawnAmbient appends a pulse at a uniformly random lattice node inside the
// grid. It does nothing on an empty grid.
func (r *PulseRegistry) SpawnAmbient(rng *rand.Rand, g Grid) {
	if g.Empty() {
		return
	}
	col := float64(rng.Intn(g.Cols))
	row := float64(rng.Intn(g.Rows))
	r.spawn(col, row, components.SourceAmbient)
}

func (r *PulseRegistry) spawn(col, row float64, src components.PulseSource) {
	p := components.Pulse{
		OriginCol: col,
		OriginRow: row,
		Lifespan:  r.lifespan,
		Seq:       r.nextSeq,
		Source:    src,
	}
	r.nextSeq++
	r.mapper.NewEntity(&p)
	r.count++
	r.spawned++
	r.enforceCap()
}

// enforceCap drops the oldest pulses until the live count fits the cap.
func (r *PulseRegistry) enforceCap() {
	if r.maxLive <= 0 {
		return
	}
	for r.count > r.maxLive {
		var oldest ecs.Entity
		var oldestAge float64
		var oldestSeq uint64
		found := false

		query := r.filter.Query()
		for query.Next() {
			p := query.Get()
			if !found || p.Age > oldestAge || (p.Age == oldestAge && p.Seq < oldestSeq) {
				oldest = query.Entity()
				oldestAge = p.Age
				oldestSeq = p.Seq
				found = true
			}
		}
		if !found {
			return
		}

		r.world.RemoveEntity(oldest)
		r.count--
		r.dropped++
	}
}

// Tick ages every pulse by dt and removes those whose age reached their lifespan.
func (r *PulseRegistry) Tick(dt float64) {
	r.toRemove = r.toRemove[:0]

	query := r.filter.Query()
	for query.Next() {
		p := query.Get()
		p.Age += dt
		if !p.Live() {
			r.toRemove = append(r.toRemove, query.Entity())
		}
	}

	// Structural changes only after the query has closed
	for _, e := range r.toRemove {
		r.world.RemoveEntity(e)
	}
	r.count -= len(r.toRemove)
	r.expired += len(r.toRemove)
}

// Snapshot appends a copy of every live pulse to dst and returns it.
// Reuse dst across frames to avoid allocations.
func (r *PulseRegistry) Snapshot(dst []components.Pulse) []components.Pulse {
	query := r.filter.Query()
	for query.Next() {
		dst = append(dst, *query.Get())
	}
	return dst
}

// Len returns the number of live pulses.
func (r *PulseRegistry) Len() int {
	return r.count
}

// Clear removes every pulse.
func (r *PulseRegistry) Clear() {
	r.toRemove = r.toRemove[:0]
	query := r.filter.Query()
	for query.Next() {
		r.toRemove = append(r.toRemove, query.Entity())
	}
	for _, e := range r.toRemove {
		r.world.RemoveEntity(e)
	}
	r.count = 0
}

// PulseCounters are registry events since the previous TakeCounters call.
type PulseCounters struct {
	Spawned int
	Expired int
	Dropped int
}

// TakeCounters returns and resets the event counters.
func (r *PulseRegistry) TakeCounters() PulseCounters {
	c := PulseCounters{Spawned: r.spawned, Expired: r.expired, Dropped: r.dropped}
	r.spawned, r.expired, r.dropped = 0, 0, 0
	return c
}
