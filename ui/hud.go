// Package ui draws the raylib heads-up display.
package ui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pulsegrid/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	State        string
	Frame        uint64
	SimTime      float64
	Pulses       int
	Culled       int
	Cols, Rows   int
	Segments     int
	Lit          int // displayed > 0
	Overload     int // displayed > 1
	MeanDamp     float64
	Peak         float64
	FPS          int32
	Paused       bool
	Theme        string
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	text  rl.Color
	muted rl.Color
}

// NewHUD creates a HUD whose text contrasts with the given background.
func NewHUD(background color.NRGBA) *HUD {
	h := &HUD{}
	h.SetBackground(background)
	return h
}

// SetBackground picks light or dark text for the background.
func (h *HUD) SetBackground(bg color.NRGBA) {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma > 128 {
		h.text = rl.Color{R: 28, G: 25, B: 23, A: 230}
		h.muted = rl.Color{R: 87, G: 83, B: 78, A: 200}
	} else {
		h.text = rl.Color{R: 250, G: 250, B: 249, A: 230}
		h.muted = rl.Color{R: 168, G: 162, B: 158, A: 200}
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, h.text)

	rl.DrawText(
		fmt.Sprintf("Grid: %dx%d | Segments: %d | Lit: %d | Overload: %d",
			data.Cols, data.Rows, data.Segments, data.Lit, data.Overload),
		10, 35, 16, h.muted,
	)

	rl.DrawText(
		fmt.Sprintf("Pulses: %d (culled %d) | Peak: %.2f | Damp: %.3f",
			data.Pulses, data.Culled, data.Peak, data.MeanDamp),
		10, 55, 16, h.muted,
	)

	rl.DrawText(
		fmt.Sprintf("Frame: %d | t=%.1fs | FPS: %d | Theme: %s",
			data.Frame, data.SimTime, data.FPS, data.Theme),
		10, 75, 16, h.muted,
	)

	status := data.State
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(status, 10, 95, 16, rl.Color{R: 255, G: 79, B: 0, A: 255})

	h.DrawControls(data.ScreenHeight, "Click: pulse | Space: pause | T: theme | R: reset | H: HUD")
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, h.muted)
}

// PerfPanel renders per-phase frame timing.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []telemetry.Phase) {
	x, y := p.x, p.y

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Step: %dus (max %dus)",
		stats.AvgStepDuration.Microseconds(), stats.MaxStepDuration.Microseconds()), x, y, 14, rl.Yellow)
	y += 16

	for _, ph := range phases {
		pct := stats.PhasePct[ph]
		c := rl.LightGray
		if pct > 50 {
			c = rl.Red
		} else if pct > 20 {
			c = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %5dus %5.1f%%", ph, stats.PhaseAvg[ph].Microseconds(), pct), x, y, 14, c)
		y += 16
	}
}
