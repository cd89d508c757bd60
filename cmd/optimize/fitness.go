package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/pulsegrid/config"
	"github.com/pthm-cable/pulsegrid/systems"
	"github.com/pthm-cable/pulsegrid/telemetry"
)

// Targets is the visual density a calibration aims for.
type Targets struct {
	Lit       float64 // Mean share of segments with displayed > 0
	Overload  float64 // Mean share of segments with displayed > 1
	Dampening float64 // Mean dampening across segments
}

// Relative weights of each target in the error.
const (
	weightLit       = 1.0
	weightOverload  = 4.0
	weightDampening = 2.0

	warmupWindows = 1 // skip the first window while pulses build up
)

// FitnessEvaluator runs headless fields and scores them against Targets.
type FitnessEvaluator struct {
	params      *Knobs
	seconds     float64
	seeds       []int64
	baseConfig  *config.Config
	targets     Targets
	statsWindow float64

	mu         sync.Mutex
	lastScores Targets // measured values from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *Knobs, seconds float64, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seconds:     seconds,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targets:     targets,
		statsWindow: 5.0,
	}
}

// LastMeasured returns the averaged measurements from the most recent evaluation.
func (fe *FitnessEvaluator) LastMeasured() Targets {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScores
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.Write(cfg, x)
	p := cfg.FieldParams()

	// Run all seeds in parallel
	measured := make([]Targets, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runField(p, cfg, s)
			measured[idx] = measure(windows)
		}(i, seed)
	}
	wg.Wait()

	var avg Targets
	for _, m := range measured {
		avg.Lit += m.Lit
		avg.Overload += m.Overload
		avg.Dampening += m.Dampening
	}
	n := float64(len(measured))
	avg.Lit /= n
	avg.Overload /= n
	avg.Dampening /= n

	fe.mu.Lock()
	fe.lastScores = avg
	fe.mu.Unlock()

	return fe.targets.Error(avg)
}

// runField runs one headless field and returns its window stats.
func (fe *FitnessEvaluator) runField(p systems.Params, cfg *config.Config, seed int64) []telemetry.WindowStats {
	field := systems.NewField(p, float64(cfg.Screen.Width), float64(cfg.Screen.Height), seed)
	collector := telemetry.NewCollector(fe.statsWindow)
	dt := cfg.Clock.HeadlessDT

	var windows []telemetry.WindowStats
	for field.SimTime() < fe.seconds {
		fs := field.Step(dt)
		collector.Record(fs)
		if collector.ShouldFlush(fs.SimTime) {
			windows = append(windows, collector.Flush(fs.SimTime))
		}
	}
	return windows
}

// copyConfig creates a copy of the base config. Config has no reference fields.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// measure averages the window stats past warmup.
func measure(windows []telemetry.WindowStats) Targets {
	if len(windows) <= warmupWindows {
		return Targets{}
	}
	valid := windows[warmupWindows:]

	var m Targets
	for _, w := range valid {
		m.Lit += w.LitMean
		m.Overload += w.OverloadMean
		m.Dampening += w.DampeningMean
	}
	n := float64(len(valid))
	m.Lit /= n
	m.Overload /= n
	m.Dampening /= n
	return m
}

// Error is the weighted squared relative error of measured against t.
func (t Targets) Error(measured Targets) float64 {
	return weightLit*relErr(measured.Lit, t.Lit) +
		weightOverload*relErr(measured.Overload, t.Overload) +
		weightDampening*relErr(measured.Dampening, t.Dampening)
}

// relErr is the squared error relative to the target, or absolute when the target is 0.
func relErr(got, want float64) float64 {
	d := got - want
	if want != 0 {
		d /= want
	}
	return d * d
}

// isFinite reports whether x can be compared as a fitness.
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
