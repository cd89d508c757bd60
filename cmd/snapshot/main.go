// Snapshot tool - runs the field offscreen and writes one frame to a PNG.
//
// Usage: go run ./cmd/snapshot -seconds 0.3 -click 200,200 -out frame.png
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pulsegrid/config"
	"github.com/pthm-cable/pulsegrid/renderer"
	"github.com/pthm-cable/pulsegrid/style"
	"github.com/pthm-cable/pulsegrid/systems"
)

// clickList collects repeated -click x,y flags.
type clickList [][2]float64

func (c *clickList) String() string { return fmt.Sprint(*c) }

func (c *clickList) Set(v string) error {
	parts := strings.Split(v, ",")
	if len(parts) != 2 {
		return fmt.Errorf("click %q: want x,y", v)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return fmt.Errorf("click %q: %w", v, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return fmt.Errorf("click %q: %w", v, err)
	}
	*c = append(*c, [2]float64{x, y})
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "snapshot.png", "Output PNG path")
	seconds := flag.Float64("seconds", 1.0, "Simulated seconds before capture")
	seed := flag.Int64("seed", 1, "RNG seed")
	theme := flag.String("theme", "", "dark or light (empty = use config)")
	pointer := flag.String("pointer", "", "Pointer position x,y (empty = absent)")
	var clicks clickList
	flag.Var(&clicks, "click", "Click at x,y pixels before the first frame (repeatable)")
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
	t := light
	if (*theme == "" && cfg.Derived.Dark) || *theme == "dark" {
		t = dark
	}

	// Simulate
	field := systems.NewField(cfg.FieldParams(), float64(cfg.Screen.Width), float64(cfg.Screen.Height), *seed)
	for _, c := range clicks {
		field.Click(c[0], c[1])
	}
	if *pointer != "" {
		var p clickList
		if err := p.Set(*pointer); err != nil {
			slog.Error("bad pointer", "error", err)
			os.Exit(1)
		}
		field.SetPointer(p[0][0], p[0][1])
	}

	dt := cfg.Clock.HeadlessDT
	if dt <= 0 {
		dt = 1.0 / 60
	}
	var last systems.FrameStats
	for field.SimTime() < *seconds {
		last = field.Step(dt)
	}

	// Initialize raylib with hidden window
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(w, h, "Snapshot")
	defer rl.CloseWindow()

	target := rl.LoadRenderTexture(w, h)
	defer rl.UnloadRenderTexture(target)

	styler := style.NewStyler(cfg.Render, t)
	grid := renderer.NewGridRenderer(styler, cfg.Grid.CellSize)
	bg := renderer.NewBackground(t, cfg.Render.FadeOverlay)

	rl.BeginTextureMode(target)
	bg.Clear()
	grid.Begin()
	field.Render(grid)
	bg.DrawOverlay(w, h)
	rl.EndTextureMode()

	// Get image from texture and flip it (OpenGL convention)
	img := rl.LoadImageFromTexture(target.Texture)
	rl.ImageFlipVertical(img)
	ok := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	if !ok {
		slog.Error("failed to export image", "path", *outPath)
		os.Exit(1)
	}

	counts := grid.Counts()
	slog.Info("snapshot written",
		"path", *outPath,
		"frame", last.Frame,
		"sim_time", field.SimTime(),
		"pulses", last.Pulses,
		"wave", counts.Wave,
		"overload", counts.Overload,
		"peak", last.PeakDisplayed,
	)
}
