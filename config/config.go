// Package config provides configuration loading and access for the field and its hosts.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/pulsegrid/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Pulse     PulseConfig     `yaml:"pulse"`
	Pointer   PointerConfig   `yaml:"pointer"`
	Dampening DampeningConfig `yaml:"dampening"`
	Render    RenderConfig    `yaml:"render"`
	Theme     ThemeConfig     `yaml:"theme"`
	Clock     ClockConfig     `yaml:"clock"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
	ShowHUD   bool   `yaml:"show_hud"`
}

// GridConfig holds lattice settings.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"` // Pixels per cell edge
	Cull     bool    `yaml:"cull"`      // Skip pulses whose ring cannot reach the grid
}

// PulseConfig holds pulse lifetime and spawn policy.
type PulseConfig struct {
	Lifespan         float64 `yaml:"lifespan"`          // Seconds
	PropagationSpeed float64 `yaml:"propagation_speed"` // Cells per second
	RingWidth        float64 `yaml:"ring_width"`        // Cells
	AmbientRate      float64 `yaml:"ambient_rate"`      // Expected ambient spawns per second
	MaxLive          int     `yaml:"max_live"`          // Oldest dropped beyond this (0 = no cap)
	SnapClicks       bool    `yaml:"snap_clicks"`       // Round click spawns to the nearest node
}

// PointerConfig holds pointer influence parameters.
type PointerConfig struct {
	Radius float64 `yaml:"radius"` // Cells
	Weight float64 `yaml:"weight"` // Brightness at distance 0
}

// DampeningConfig holds collision detection and burn/recovery rates.
type DampeningConfig struct {
	ActiveThreshold    float64 `yaml:"active_threshold"`    // Contribution needed to count as a source
	CollisionIntensity float64 `yaml:"collision_intensity"` // Combined intensity needed to burn
	MinSources         int     `yaml:"min_sources"`         // Active sources needed to burn
	BurnRate           float64 `yaml:"burn_rate"`           // Per second
	RecoverRate        float64 `yaml:"recover_rate"`        // Per second
	Ceiling            float64 `yaml:"ceiling"`
}

// RenderConfig holds the value-to-line mapping.
type RenderConfig struct {
	BaselineThreshold  float64 `yaml:"baseline_threshold"`   // At or below: inert baseline line
	OverloadThreshold  float64 `yaml:"overload_threshold"`   // Above: hot overload line
	BaselineAlpha      float64 `yaml:"baseline_alpha"`
	AlphaBase          float64 `yaml:"alpha_base"`
	AlphaGain          float64 `yaml:"alpha_gain"`
	WaveAlphaCap       float64 `yaml:"wave_alpha_cap"`
	OverloadAlphaCap   float64 `yaml:"overload_alpha_cap"`
	WidthGain          float64 `yaml:"width_gain"`
	OverloadWidthScale float64 `yaml:"overload_width_scale"`
	FadeOverlay        bool    `yaml:"fade_overlay"` // Bottom gradient into the background
}

// HSV is a colour in hue (degrees), saturation and value ([0,1]).
type HSV struct {
	H float64 `yaml:"h"`
	S float64 `yaml:"s"`
	V float64 `yaml:"v"`
}

// PaletteConfig holds the colours of one theme.
type PaletteConfig struct {
	Background HSV `yaml:"background"`
	Baseline   HSV `yaml:"baseline"`
	Accent     HSV `yaml:"accent"`
	Hot        HSV `yaml:"hot"`
}

// ThemeConfig selects and defines the dark and light palettes.
type ThemeConfig struct {
	Mode  string        `yaml:"mode"` // "dark" or "light"
	Dark  PaletteConfig `yaml:"dark"`
	Light PaletteConfig `yaml:"light"`
}

// ClockConfig holds frame timing parameters.
type ClockConfig struct {
	MaxDelta   float64 `yaml:"max_delta"`   // Clamp for host frame deltas (0 = none)
	HeadlessDT float64 `yaml:"headless_dt"` // Fixed step for headless runs
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of simulated time per window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Frames
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	Dark      bool    // Theme.Mode == "dark"
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values the field cannot run with.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"grid.cell_size", c.Grid.CellSize},
		{"pulse.lifespan", c.Pulse.Lifespan},
		{"pulse.propagation_speed", c.Pulse.PropagationSpeed},
		{"pulse.ring_width", c.Pulse.RingWidth},
		{"pointer.radius", c.Pointer.Radius},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("invalid config: %s must be positive, got %v", p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"pulse.ambient_rate", c.Pulse.AmbientRate},
		{"dampening.active_threshold", c.Dampening.ActiveThreshold},
		{"dampening.collision_intensity", c.Dampening.CollisionIntensity},
		{"dampening.burn_rate", c.Dampening.BurnRate},
		{"dampening.recover_rate", c.Dampening.RecoverRate},
		{"dampening.ceiling", c.Dampening.Ceiling},
		{"clock.max_delta", c.Clock.MaxDelta},
		{"pulse.max_live", float64(c.Pulse.MaxLive)},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("invalid config: %s must not be negative, got %v", p.name, p.value)
		}
	}

	// A single source must never count as a collision
	if c.Dampening.MinSources < 2 {
		return fmt.Errorf("invalid config: dampening.min_sources must be at least 2, got %d", c.Dampening.MinSources)
	}

	switch c.Theme.Mode {
	case "dark", "light":
	default:
		return fmt.Errorf("invalid config: theme.mode must be \"dark\" or \"light\", got %q", c.Theme.Mode)
	}

	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Dark = c.Theme.Mode == "dark"

	if c.Clock.HeadlessDT <= 0 {
		fps := c.Screen.TargetFPS
		if fps <= 0 {
			fps = 60
		}
		c.Clock.HeadlessDT = 1.0 / float64(fps)
	}
}

// FieldParams maps the loaded config onto field tuning.
func (c *Config) FieldParams() systems.Params {
	return systems.Params{
		CellSize:            c.Grid.CellSize,
		Lifespan:            c.Pulse.Lifespan,
		PropagationSpeed:    c.Pulse.PropagationSpeed,
		RingWidth:           c.Pulse.RingWidth,
		AmbientRate:         c.Pulse.AmbientRate,
		MaxLivePulses:       c.Pulse.MaxLive,
		SnapClicks:          c.Pulse.SnapClicks,
		PointerRadius:       c.Pointer.Radius,
		PointerWeight:       c.Pointer.Weight,
		ActiveThreshold:     c.Dampening.ActiveThreshold,
		CollisionIntensity:  c.Dampening.CollisionIntensity,
		MinCollisionSources: c.Dampening.MinSources,
		BurnRate:            c.Dampening.BurnRate,
		RecoverRate:         c.Dampening.RecoverRate,
		DampeningCeiling:    c.Dampening.Ceiling,
		Cull:                c.Grid.Cull,
	}
}

// ApplyFieldParams writes field tuning back into the config (used by the tuner).
func (c *Config) ApplyFieldParams(p systems.Params) {
	c.Grid.CellSize = p.CellSize
	c.Grid.Cull = p.Cull
	c.Pulse.Lifespan = p.Lifespan
	c.Pulse.PropagationSpeed = p.PropagationSpeed
	c.Pulse.RingWidth = p.RingWidth
	c.Pulse.AmbientRate = p.AmbientRate
	c.Pulse.MaxLive = p.MaxLivePulses
	c.Pulse.SnapClicks = p.SnapClicks
	c.Pointer.Radius = p.PointerRadius
	c.Pointer.Weight = p.PointerWeight
	c.Dampening.ActiveThreshold = p.ActiveThreshold
	c.Dampening.CollisionIntensity = p.CollisionIntensity
	c.Dampening.MinSources = p.MinCollisionSources
	c.Dampening.BurnRate = p.BurnRate
	c.Dampening.RecoverRate = p.RecoverRate
	c.Dampening.Ceiling = p.DampeningCeiling
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
