package game

import (
	"log/slog"

	"github.com/pthm-cable/pulsegrid/systems"
)

// logStateChange records idle/active transitions.
func (g *Game) logStateChange(fs systems.FrameStats) {
	slog.Debug("field state",
		"state", fs.State.String(),
		"frame", fs.Frame,
		"sim_time", fs.SimTime,
		"pulses", fs.Pulses,
		"pointer", g.field.Pointer().Present,
	)
}

func (g *Game) logThemeChange(name string) {
	slog.Debug("theme changed", "theme", name)
}
