// Package telemetry aggregates field frame stats into windows, tracks
// frame timing, flags notable moments and writes CSV output.
package telemetry

import (
	"math"

	"github.com/pthm-cable/pulsegrid/systems"
)

// Collector accumulates frame stats within simulated-time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartFrame uint64
	windowStartTime  float64
	lastFrame        uint64

	// Event counters for current window
	spawned      int
	expired      int
	dropped      int
	collisions   int
	transitions  int
	activeFrames int

	// Per-frame samples for current window
	pulses    []float64
	culled    []float64
	lit       []float64
	overload  []float64
	dampening []float64
	scarred   []float64
	peak      float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulated seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// Record adds one frame.
func (c *Collector) Record(fs systems.FrameStats) {
	c.lastFrame = fs.Frame
	c.spawned += fs.Spawned
	c.expired += fs.Expired
	c.dropped += fs.Dropped
	c.collisions += fs.Collisions
	if fs.StateChanged {
		c.transitions++
	}
	if fs.State == systems.StateActive {
		c.activeFrames++
	}

	c.pulses = append(c.pulses, float64(fs.Pulses))
	c.culled = append(c.culled, float64(fs.CulledPulses))
	var lit, over, scar float64
	if fs.Segments > 0 {
		lit = float64(fs.LitSegments) / float64(fs.Segments)
		over = float64(fs.OverloadSegments) / float64(fs.Segments)
		scar = float64(fs.ScarredSegments) / float64(fs.Segments)
	}
	c.lit = append(c.lit, lit)
	c.overload = append(c.overload, over)
	c.dampening = append(c.dampening, fs.MeanDampening)
	c.scarred = append(c.scarred, scar)
	c.peak = math.Max(c.peak, fs.PeakDisplayed)
}

// ShouldFlush returns true if enough simulated time has passed to flush the window.
func (c *Collector) ShouldFlush(simTime float64) bool {
	return simTime-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(simTime float64) WindowStats {
	pulses := Summarize(c.pulses)
	lit := Summarize(c.lit)
	damp := Summarize(c.dampening)
	scarred := Summarize(c.scarred)

	frames := len(c.pulses)
	var activeFrac float64
	if frames > 0 {
		activeFrac = float64(c.activeFrames) / float64(frames)
	}

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   c.lastFrame,
		SimTimeSec:       simTime,
		Frames:           frames,

		Spawned: c.spawned,
		Expired: c.expired,
		Dropped: c.dropped,

		PulsesMean: pulses.Mean,
		PulsesMax:  int(pulses.Max),
		CulledMean: Summarize(c.culled).Mean,

		LitMean: lit.Mean,
		LitP50:  lit.P50,
		LitP90:  lit.P90,

		OverloadMean: Summarize(c.overload).Mean,

		Collisions:    c.collisions,
		DampeningMean: damp.Mean,
		DampeningMax:  damp.Max,
		ScarredMean:   scarred.Mean,
		ScarredMax:    scarred.Max,

		PeakDisplayed: c.peak,
		ActiveFrac:    activeFrac,
		Transitions:   c.transitions,
	}

	// Reset for next window
	c.windowStartFrame = c.lastFrame
	c.windowStartTime = simTime
	c.spawned = 0
	c.expired = 0
	c.dropped = 0
	c.collisions = 0
	c.transitions = 0
	c.activeFrames = 0
	c.pulses = c.pulses[:0]
	c.culled = c.culled[:0]
	c.lit = c.lit[:0]
	c.overload = c.overload[:0]
	c.dampening = c.dampening[:0]
	c.scarred = c.scarred[:0]
	c.peak = 0

	return stats
}

// Pending returns the number of frames recorded since the last flush.
func (c *Collector) Pending() int {
	return len(c.pulses)
}
