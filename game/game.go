// Package game hosts a Field in a raylib window or headless loop.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/pulsegrid/config"
	"github.com/pthm-cable/pulsegrid/renderer"
	"github.com/pthm-cable/pulsegrid/style"
	"github.com/pthm-cable/pulsegrid/systems"
	"github.com/pthm-cable/pulsegrid/telemetry"
	"github.com/pthm-cable/pulsegrid/ui"
)

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	Debug          bool

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the field and everything that drives and draws it.
type Game struct {
	cfg   *config.Config
	field *systems.Field
	clock *systems.Clock

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	// Rendering (nil when headless)
	styler       *style.Styler
	gridRenderer *renderer.GridRenderer
	background   *renderer.Background
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	dark, light  style.Theme
	darkMode     bool

	last systems.FrameStats

	// State
	headless  bool
	paused    bool
	showHUD   bool
	debugMode bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		field:            systems.NewField(cfg.FieldParams(), float64(cfg.Screen.Width), float64(cfg.Screen.Height), opts.Seed),
		clock:            systems.NewClock(cfg.Clock.MaxDelta),
		collector:        telemetry.NewCollector(statsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		headless:         opts.Headless,
		showHUD:          cfg.Screen.ShowHUD,
		debugMode:        opts.Debug,
		darkMode:         cfg.Derived.Dark,
		screenWidth:      cfg.Derived.ScreenW32,
		screenHeight:     cfg.Derived.ScreenH32,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if !opts.Headless {
		if err := g.initRendering(); err != nil {
			om.Close()
			return nil, err
		}
	}

	grid := g.field.Grid()
	slog.Info("field created",
		"cols", grid.Cols,
		"rows", grid.Rows,
		"segments", grid.SegmentCount(),
		"seed", opts.Seed,
		"headless", opts.Headless,
	)

	return g, nil
}

// initRendering resolves themes and builds the renderers.
func (g *Game) initRendering() error {
	dark, light, err := style.Themes(g.cfg.Theme)
	if err != nil {
		return fmt.Errorf("resolving themes: %w", err)
	}
	g.dark, g.light = dark, light

	theme := g.theme()
	g.styler = style.NewStyler(g.cfg.Render, theme)
	g.gridRenderer = renderer.NewGridRenderer(g.styler, g.cfg.Grid.CellSize)
	g.background = renderer.NewBackground(theme, g.cfg.Render.FadeOverlay)
	g.hud = ui.NewHUD(theme.Background)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-260, 10)
	return nil
}

func (g *Game) theme() style.Theme {
	if g.darkMode {
		return g.dark
	}
	return g.light
}

// Update advances the field by the wall-clock time since the last frame.
func (g *Game) Update(now float64) {
	g.perfCollector.StartStep()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.handleInput()

	dt := g.clock.Advance(now)
	if g.paused {
		return
	}

	g.step(dt)
}

// UpdateHeadless advances the field by one fixed step.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartStep()
	g.step(g.cfg.Clock.HeadlessDT)
	g.perfCollector.EndStep()
}

func (g *Game) step(dt float64) {
	g.perfCollector.StartPhase(telemetry.PhaseSimulate)
	fs := g.field.Step(dt)
	g.last = fs

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(fs)
	if fs.StateChanged {
		g.logStateChange(fs)
	}
	g.flushTelemetry(fs)
}

// Field returns the simulated field.
func (g *Game) Field() *systems.Field { return g.field }

// Frame returns the number of simulated frames.
func (g *Game) Frame() uint64 { return g.last.Frame }

// SimTime returns the simulated seconds elapsed.
func (g *Game) SimTime() float64 { return g.field.SimTime() }

// Unload flushes the final window and releases resources.
func (g *Game) Unload() {
	if g.collector.Pending() > 0 {
		g.writeWindow(g.collector.Flush(g.field.SimTime()))
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
