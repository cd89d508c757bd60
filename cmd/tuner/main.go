// Field tuner - interactive field with sliders for the simulation parameters.
//
// Usage: go run ./cmd/tuner -config my.yaml -save tuned.yaml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pulsegrid/config"
	"github.com/pthm-cable/pulsegrid/renderer"
	"github.com/pthm-cable/pulsegrid/style"
	"github.com/pthm-cable/pulsegrid/systems"
)

const (
	fieldWidth  = 960
	fieldHeight = 720
	panelWidth  = 320
)

// slider describes one tunable parameter.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(*systems.Params) float64
	set      func(*systems.Params, float64)
}

var sliders = []slider{
	{"Lifespan (s)", 1, 100, "%.0f",
		func(p *systems.Params) float64 { return p.Lifespan },
		func(p *systems.Params, v float64) { p.Lifespan = v }},
	{"Speed (cells/s)", 1, 40, "%.1f",
		func(p *systems.Params) float64 { return p.PropagationSpeed },
		func(p *systems.Params, v float64) { p.PropagationSpeed = v }},
	{"Ring width (cells)", 0.25, 6, "%.2f",
		func(p *systems.Params) float64 { return p.RingWidth },
		func(p *systems.Params, v float64) { p.RingWidth = v }},
	{"Ambient rate (/s)", 0, 5, "%.2f",
		func(p *systems.Params) float64 { return p.AmbientRate },
		func(p *systems.Params, v float64) { p.AmbientRate = v }},
	{"Pointer radius (cells)", 0.5, 12, "%.1f",
		func(p *systems.Params) float64 { return p.PointerRadius },
		func(p *systems.Params, v float64) { p.PointerRadius = v }},
	{"Pointer weight", 0, 2, "%.2f",
		func(p *systems.Params) float64 { return p.PointerWeight },
		func(p *systems.Params, v float64) { p.PointerWeight = v }},
	{"Burn rate (/s)", 0, 20, "%.1f",
		func(p *systems.Params) float64 { return p.BurnRate },
		func(p *systems.Params, v float64) { p.BurnRate = v }},
	{"Recover rate (/s)", 0, 5, "%.2f",
		func(p *systems.Params) float64 { return p.RecoverRate },
		func(p *systems.Params, v float64) { p.RecoverRate = v }},
	{"Collision intensity", 0, 2, "%.2f",
		func(p *systems.Params) float64 { return p.CollisionIntensity },
		func(p *systems.Params, v float64) { p.CollisionIntensity = v }},
	{"Cell size (px)", 10, 120, "%.0f",
		func(p *systems.Params) float64 { return p.CellSize },
		func(p *systems.Params, v float64) { p.CellSize = float64(int(v)) }},
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	savePath := flag.String("save", "tuned.yaml", "Where the Save button writes the config")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	dark, light, err := style.Themes(cfg.Theme)
	if err != nil {
		slog.Error("failed to resolve themes", "error", err)
		os.Exit(1)
	}
	darkMode := cfg.Derived.Dark
	theme := func() style.Theme {
		if darkMode {
			return dark
		}
		return light
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(fieldWidth+panelWidth, fieldHeight, "Pulse Grid Tuner")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	params := cfg.FieldParams()
	field := systems.NewField(params, fieldWidth, fieldHeight, time.Now().UnixNano())
	clock := systems.NewClock(cfg.Clock.MaxDelta)

	styler := style.NewStyler(cfg.Render, theme())
	grid := renderer.NewGridRenderer(styler, params.CellSize)
	bg := renderer.NewBackground(theme(), cfg.Render.FadeOverlay)

	var last systems.FrameStats
	status := ""

	for !rl.WindowShouldClose() {
		// Pointer and clicks only count over the field area
		mouse := rl.GetMousePosition()
		if rl.IsCursorOnScreen() && mouse.X < fieldWidth {
			field.SetPointer(float64(mouse.X), float64(mouse.Y))
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
				field.Click(float64(mouse.X), float64(mouse.Y))
			}
		} else {
			field.ClearPointer()
		}

		last = field.Step(clock.Advance(rl.GetTime()))

		rl.BeginDrawing()
		rl.BeginScissorMode(0, 0, fieldWidth, fieldHeight)
		bg.Clear()
		grid.SetCellSize(params.CellSize)
		grid.Begin()
		field.Render(grid)
		bg.DrawOverlay(fieldWidth, fieldHeight)
		rl.EndScissorMode()

		// Control panel
		panelX := float32(fieldWidth + 15)
		panelY := float32(10)
		rl.DrawRectangle(fieldWidth, 0, panelWidth, fieldHeight, rl.RayWhite)
		rl.DrawText("Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		changed := false
		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			cur := float32(s.get(&params))
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: panelWidth - 90, Height: 18},
				"", "",
				cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), int32(panelX+panelWidth-80), int32(panelY+2), 16, rl.DarkGray)
			if next != cur {
				s.set(&params, float64(next))
				changed = true
			}
			panelY += 28
		}
		snap := gui.CheckBox(rl.Rectangle{X: panelX, Y: panelY, Width: 18, Height: 18}, "Snap clicks", params.SnapClicks)
		if snap != params.SnapClicks {
			params.SnapClicks = snap
			changed = true
		}
		panelY += 30

		if changed {
			field.SetParams(params)
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 90, Height: 30}, "Reset") {
			field.Reset()
		}
		if gui.Button(rl.Rectangle{X: panelX + 100, Y: panelY, Width: 90, Height: 30}, "Theme") {
			darkMode = !darkMode
			styler.SetTheme(theme())
			bg.SetTheme(theme())
		}
		if gui.Button(rl.Rectangle{X: panelX + 200, Y: panelY, Width: 90, Height: 30}, "Save") {
			cfg.ApplyFieldParams(params)
			if err := cfg.Validate(); err != nil {
				status = err.Error()
			} else if err := cfg.WriteYAML(*savePath); err != nil {
				status = err.Error()
				slog.Error("failed to save config", "error", err)
			} else {
				status = "saved " + *savePath
				slog.Info("config saved", "path", *savePath)
			}
		}
		panelY += 45

		counts := grid.Counts()
		rl.DrawText(fmt.Sprintf("Pulses: %d  Lit: %d  Hot: %d", last.Pulses, counts.Wave+counts.Overload, counts.Overload),
			int32(panelX), int32(panelY), 14, rl.DarkGray)
		panelY += 18
		rl.DrawText(fmt.Sprintf("Peak: %.2f  Damp: %.3f  %s", last.PeakDisplayed, last.MeanDampening, last.State),
			int32(panelX), int32(panelY), 14, rl.DarkGray)
		panelY += 18
		rl.DrawText(status, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.EndDrawing()
	}
}
