package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkCollisionBurst BookmarkType = "collision_burst"
	BookmarkFirstOverload  BookmarkType = "first_overload"
	BookmarkScarFormed     BookmarkType = "scar_formed"
	BookmarkSettled        BookmarkType = "settled"
	BookmarkSteadyState    BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       uint64       `csv:"frame"`
	SimTime     float64      `csv:"sim_time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"sim_time", b.SimTime,
		"description", b.Description,
	)
}

// steadyWindows is how many consecutive low-variance windows make a steady state.
const steadyWindows = 5

// BookmarkDetector detects notable moments in a run from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	sawOverload bool
	prevDampMax float64
	wasActive   bool
	steadyCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 4 {
		historySize = 4 // minimum for steady state detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	checks := []func(WindowStats) *Bookmark{
		bd.checkCollisionBurst,
		bd.checkFirstOverload,
		bd.checkScarFormed,
		bd.checkSettled,
		bd.checkSteadyState,
	}
	for _, check := range checks {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.prevDampMax = stats.DampeningMax
	bd.wasActive = stats.ActiveFrac > 0

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) mark(t BookmarkType, stats WindowStats, format string, args ...any) *Bookmark {
	return &Bookmark{
		Type:        t,
		Frame:       stats.WindowEndFrame,
		SimTime:     stats.SimTimeSec,
		Description: fmt.Sprintf(format, args...),
	}
}

func (bd *BookmarkDetector) checkCollisionBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Collisions
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Collisions) > avg*2 && stats.Collisions >= 10 {
		return bd.mark(BookmarkCollisionBurst, stats,
			"Collisions %d are %.1fx average (%.1f)", stats.Collisions, float64(stats.Collisions)/avg, avg)
	}
	return nil
}

func (bd *BookmarkDetector) checkFirstOverload(stats WindowStats) *Bookmark {
	if bd.sawOverload || stats.OverloadMean <= 0 {
		return nil
	}
	bd.sawOverload = true
	return bd.mark(BookmarkFirstOverload, stats,
		"First overloaded segments, peak displayed %.2f", stats.PeakDisplayed)
}

func (bd *BookmarkDetector) checkScarFormed(stats WindowStats) *Bookmark {
	const scar = 0.5
	if bd.prevDampMax < scar && stats.DampeningMax >= scar {
		return bd.mark(BookmarkScarFormed, stats,
			"Dampening reached %.2f after %d collisions, %.1f%% of segments scarred",
			stats.DampeningMax, stats.Collisions, stats.ScarredMax*100)
	}
	return nil
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if bd.wasActive && stats.ActiveFrac == 0 {
		return bd.mark(BookmarkSettled, stats, "Field idle for a full window")
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.PulsesMean < 1 {
		bd.steadyCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := make([]float64, 0, 4)
	for _, h := range history[len(history)-4:] {
		recent = append(recent, h.LitMean)
	}
	mean, std := stat.MeanStdDev(recent, nil)

	// Coefficient of variation below 20%
	if mean > 0 && std/mean < 0.2 {
		bd.steadyCount++
	} else {
		bd.steadyCount = 0
	}

	if bd.steadyCount == steadyWindows {
		return bd.mark(BookmarkSteadyState, stats,
			"Lit fraction steady at %.3f over %d windows", mean, steadyWindows)
	}
	return nil
}
