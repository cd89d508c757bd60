package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of simulated time.
type WindowStats struct {
	WindowStartFrame uint64  `csv:"-"`
	WindowEndFrame   uint64  `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`
	Frames           int     `csv:"frames"`

	// Pulse lifecycle during window
	Spawned int `csv:"spawned"`
	Expired int `csv:"expired"`
	Dropped int `csv:"dropped"`

	// Live pulses per frame
	PulsesMean float64 `csv:"pulses_mean"`
	PulsesMax  int     `csv:"pulses_max"`
	CulledMean float64 `csv:"culled_mean"`

	// Fraction of segments with displayed > 0
	LitMean float64 `csv:"lit_mean"`
	LitP50  float64 `csv:"lit_p50"`
	LitP90  float64 `csv:"lit_p90"`

	// Fraction of segments with displayed > 1
	OverloadMean float64 `csv:"overload_mean"`

	// Dampening
	Collisions    int     `csv:"collisions"`
	DampeningMean float64 `csv:"dampening_mean"`
	DampeningMax  float64 `csv:"dampening_max"`
	ScarredMean   float64 `csv:"scarred_mean"` // Fraction of segments with dampening > 0
	ScarredMax    float64 `csv:"scarred_max"`

	PeakDisplayed float64 `csv:"peak_displayed"`
	ActiveFrac    float64 `csv:"active_frac"` // Share of frames in the active state
	Transitions   int     `csv:"transitions"`
}

// Summary is a compact distribution description.
type Summary struct {
	Mean float64
	P50  float64
	P90  float64
	Max  float64
}

// Summarize computes mean, empirical quantiles and max. Returns zeros for empty input.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean: stat.Mean(sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:  floats.Max(sorted),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartFrame),
		slog.Uint64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("frames", s.Frames),
		slog.Int("spawned", s.Spawned),
		slog.Int("expired", s.Expired),
		slog.Int("dropped", s.Dropped),
		slog.Float64("pulses_mean", s.PulsesMean),
		slog.Int("pulses_max", s.PulsesMax),
		slog.Float64("culled_mean", s.CulledMean),
		slog.Float64("lit_mean", s.LitMean),
		slog.Float64("lit_p50", s.LitP50),
		slog.Float64("lit_p90", s.LitP90),
		slog.Float64("overload_mean", s.OverloadMean),
		slog.Int("collisions", s.Collisions),
		slog.Float64("dampening_mean", s.DampeningMean),
		slog.Float64("dampening_max", s.DampeningMax),
		slog.Float64("peak_displayed", s.PeakDisplayed),
		slog.Float64("active_frac", s.ActiveFrac),
		slog.Int("transitions", s.Transitions),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"spawned", s.Spawned,
		"expired", s.Expired,
		"dropped", s.Dropped,
		"pulses_mean", s.PulsesMean,
		"pulses_max", s.PulsesMax,
		"lit_mean", s.LitMean,
		"lit_p90", s.LitP90,
		"overload_mean", s.OverloadMean,
		"collisions", s.Collisions,
		"dampening_mean", s.DampeningMean,
		"peak_displayed", s.PeakDisplayed,
		"active_frac", s.ActiveFrac,
	)
}
