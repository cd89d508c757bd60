package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed section of a host frame.
type Phase int

const (
	PhaseInput Phase = iota
	PhaseSimulate
	PhaseRender
	PhaseHUD
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"input", "simulate", "render", "hud", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists every phase in frame order.
var Phases = []Phase{PhaseInput, PhaseSimulate, PhaseRender, PhaseHUD, PhaseTelemetry}

// PhaseTimes holds one duration per phase.
type PhaseTimes [numPhases]time.Duration

type perfSample struct {
	step   time.Duration
	phases PhaseTimes
}

// PerfCollector keeps a ring of the last N frame timings.
// Only one phase is open at a time; starting a phase closes the previous one.
type PerfCollector struct {
	ring []perfSample
	next int
	n    int

	cur        PhaseTimes
	open       Phase
	stepStart  time.Time
	phaseStart time.Time

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector averages over the last size steps (60 if size < 1).
func NewPerfCollector(size int) *PerfCollector {
	if size < 1 {
		size = 60
	}
	return &PerfCollector{ring: make([]perfSample, size), open: -1}
}

func (p *PerfCollector) StartStep() {
	p.stepStart = time.Now()
	p.cur = PhaseTimes{}
	p.open = -1
}

func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.open = ph
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.open >= 0 && p.open < numPhases {
		p.cur[p.open] += now.Sub(p.phaseStart)
	}
	p.open = -1
}

// EndStep closes the open phase and stores the step.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	p.closePhase(now)
	p.ring[p.next] = perfSample{step: now.Sub(p.stepStart), phases: p.cur}
	p.next = (p.next + 1) % len(p.ring)
	if p.n < len(p.ring) {
		p.n++
	}
}

// RecordFrame marks a presented frame; windowed hosts call it once per draw.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the collector's window.
type PerfStats struct {
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration

	PhaseAvg PhaseTimes
	PhasePct [numPhases]float64 // share of the average step

	StepsPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frameDuration}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.n == 0 {
		return s
	}

	var total time.Duration
	var sums PhaseTimes
	for i, smp := range p.ring[:p.n] {
		total += smp.step
		if i == 0 || smp.step < s.MinStepDuration {
			s.MinStepDuration = smp.step
		}
		s.MaxStepDuration = max(s.MaxStepDuration, smp.step)
		for ph, d := range smp.phases {
			sums[ph] += d
		}
	}

	count := time.Duration(p.n)
	s.AvgStepDuration = total / count
	for ph := range sums {
		s.PhaseAvg[ph] = sums[ph] / count
		if s.AvgStepDuration > 0 {
			s.PhasePct[ph] = 100 * float64(s.PhaseAvg[ph]) / float64(s.AvgStepDuration)
		}
	}
	if s.AvgStepDuration > 0 {
		s.StepsPerSecond = float64(time.Second) / float64(s.AvgStepDuration)
	}
	return s
}

// LogStats logs the window at info level, skipping negligible phases.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_step_us", s.AvgStepDuration.Microseconds(),
		"min_step_us", s.MinStepDuration.Microseconds(),
		"max_step_us", s.MaxStepDuration.Microseconds(),
		"steps_per_sec", int(s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Int64("max_step_us", s.MaxStepDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgStepUS    int64   `csv:"avg_step_us"`
	MinStepUS    int64   `csv:"min_step_us"`
	MaxStepUS    int64   `csv:"max_step_us"`
	StepsPerSec  float64 `csv:"steps_per_sec"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	SimulatePct  float64 `csv:"simulate_pct"`
	RenderPct    float64 `csv:"render_pct"`
	HUDPct       float64 `csv:"hud_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgStepUS:    s.AvgStepDuration.Microseconds(),
		MinStepUS:    s.MinStepDuration.Microseconds(),
		MaxStepUS:    s.MaxStepDuration.Microseconds(),
		StepsPerSec:  s.StepsPerSecond,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		SimulatePct:  s.PhasePct[PhaseSimulate],
		RenderPct:    s.PhasePct[PhaseRender],
		HUDPct:       s.PhasePct[PhaseHUD],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
