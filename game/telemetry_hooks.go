package game

import (
	"log/slog"

	"github.com/pthm-cable/pulsegrid/systems"
	"github.com/pthm-cable/pulsegrid/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry(fs systems.FrameStats) {
	if !g.collector.ShouldFlush(fs.SimTime) {
		return
	}
	g.writeWindow(g.collector.Flush(fs.SimTime))
}

// writeWindow reports one window to the callback, the log and the output files.
func (g *Game) writeWindow(stats telemetry.WindowStats) {
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}
