package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pulsegrid/telemetry"
	"github.com/pthm-cable/pulsegrid/ui"
)

// Draw renders the last simulated frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	g.perfCollector.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	g.background.Clear()

	g.gridRenderer.SetCellSize(g.field.Grid().CellSize)
	g.gridRenderer.Begin()
	g.field.Render(g.gridRenderer)

	g.background.DrawOverlay(int32(g.screenWidth), int32(g.screenHeight))

	g.perfCollector.StartPhase(telemetry.PhaseHUD)
	if g.showHUD || g.paused {
		g.drawHUD()
	}
	if g.debugMode {
		g.perfPanel.Draw(g.perfCollector.Stats(), telemetry.Phases)
	}

	rl.EndDrawing()
	g.perfCollector.EndStep()
}

func (g *Game) drawHUD() {
	data := g.hudData()
	data.FPS = rl.GetFPS()
	g.hud.Draw(data)
}

// hudData reports the last frame. Lit and overload counts come from the
// field's frame stats so the HUD and telemetry agree.
func (g *Game) hudData() ui.HUDData {
	grid := g.field.Grid()
	return ui.HUDData{
		Title:        g.cfg.Screen.Title,
		State:        g.field.State().String(),
		Frame:        g.last.Frame,
		SimTime:      g.field.SimTime(),
		Pulses:       g.field.PulseCount(),
		Culled:       g.last.CulledPulses,
		Cols:         grid.Cols,
		Rows:         grid.Rows,
		Segments:     grid.SegmentCount(),
		Lit:          g.last.LitSegments,
		Overload:     g.last.OverloadSegments,
		MeanDamp:     g.last.MeanDampening,
		Peak:         g.last.PeakDisplayed,
		Paused:       g.paused,
		Theme:        g.theme().Name,
		ScreenHeight: int32(g.screenHeight),
	}
}
