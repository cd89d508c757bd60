package main

import (
	"github.com/pthm-cable/pulsegrid/config"
)

// knob is one calibrated field parameter and where it lives in the config.
type knob struct {
	Name   string
	Lo, Hi float64
	field  func(*config.Config) *float64
}

func (k knob) clamp(v float64) float64 { return min(max(v, k.Lo), k.Hi) }

// Knobs is the search space. CMA-ES works in the unit cube; values are
// mapped linearly onto each knob's range.
type Knobs struct {
	Specs []knob
	base  []float64
}

// NewKnobs returns the calibrated parameters, starting from cfg.
func NewKnobs(cfg *config.Config) *Knobs {
	k := &Knobs{Specs: []knob{
		{"ambient_rate", 0.05, 3.0, func(c *config.Config) *float64 { return &c.Pulse.AmbientRate }},
		{"ring_width", 0.5, 5.0, func(c *config.Config) *float64 { return &c.Pulse.RingWidth }},
		{"burn_rate", 0.5, 20.0, func(c *config.Config) *float64 { return &c.Dampening.BurnRate }},
		{"recover_rate", 0.05, 3.0, func(c *config.Config) *float64 { return &c.Dampening.RecoverRate }},
		{"collision_intensity", 0.1, 1.5, func(c *config.Config) *float64 { return &c.Dampening.CollisionIntensity }},
	}}
	k.base = k.Read(cfg)
	return k
}

func (k *Knobs) Dim() int { return len(k.Specs) }

// Start is the base config's values, clamped into range.
func (k *Knobs) Start() []float64 {
	return k.Clamp(k.base)
}

// ToUnit maps raw values into [0,1] per knob.
func (k *Knobs) ToUnit(raw []float64) []float64 {
	out := make([]float64, len(k.Specs))
	for i, s := range k.Specs {
		out[i] = (raw[i] - s.Lo) / (s.Hi - s.Lo)
	}
	return out
}

// FromUnit is the inverse of ToUnit. Results may be out of range.
func (k *Knobs) FromUnit(u []float64) []float64 {
	out := make([]float64, len(k.Specs))
	for i, s := range k.Specs {
		out[i] = s.Lo + u[i]*(s.Hi-s.Lo)
	}
	return out
}

func (k *Knobs) Clamp(v []float64) []float64 {
	out := make([]float64, len(k.Specs))
	for i, s := range k.Specs {
		out[i] = s.clamp(v[i])
	}
	return out
}

// Write stores clamped values into cfg.
func (k *Knobs) Write(cfg *config.Config, values []float64) {
	for i, s := range k.Specs {
		*s.field(cfg) = s.clamp(values[i])
	}
}

// Read returns cfg's current values, unclamped.
func (k *Knobs) Read(cfg *config.Config) []float64 {
	out := make([]float64, len(k.Specs))
	for i, s := range k.Specs {
		out[i] = *s.field(cfg)
	}
	return out
}
