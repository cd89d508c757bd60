package telemetry

import (
	"strings"
	"testing"
)

func steadyWindow(frame uint64) WindowStats {
	return WindowStats{
		WindowEndFrame: frame,
		SimTimeSec:     float64(frame) / 60,
		PulsesMean:     3,
		LitMean:        0.1,
		ActiveFrac:     1,
	}
}

func countType(bs []Bookmark, t BookmarkType) int {
	n := 0
	for _, b := range bs {
		if b.Type == t {
			n++
		}
	}
	return n
}

func TestBookmarkSteadyStateFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(8)

	var all []Bookmark
	firedAt := -1
	for i := 0; i < 12; i++ {
		got := bd.Check(steadyWindow(uint64(i+1) * 600))
		if countType(got, BookmarkSteadyState) > 0 && firedAt < 0 {
			firedAt = i
		}
		all = append(all, got...)
	}

	if n := countType(all, BookmarkSteadyState); n != 1 {
		t.Fatalf("steady state fired %d times, want 1", n)
	}
	if firedAt != 8 {
		t.Errorf("steady state fired at window %d, want 8", firedAt)
	}
	if len(all) != 1 {
		t.Errorf("unexpected extra bookmarks: %+v", all)
	}
}

func TestBookmarkFirstOverloadAndScar(t *testing.T) {
	bd := NewBookmarkDetector(5)

	w := steadyWindow(600)
	w.OverloadMean = 0.01
	w.DampeningMax = 0.8
	w.ScarredMax = 0.125
	got := bd.Check(w)
	if countType(got, BookmarkFirstOverload) != 1 {
		t.Error("expected first overload bookmark")
	}
	if countType(got, BookmarkScarFormed) != 1 {
		t.Error("expected scar bookmark")
	}
	for _, b := range got {
		if b.Type == BookmarkScarFormed && !strings.Contains(b.Description, "12.5% of segments scarred") {
			t.Errorf("scar description = %q", b.Description)
		}
	}

	// Neither repeats while conditions persist
	w.WindowEndFrame = 1200
	got = bd.Check(w)
	if countType(got, BookmarkFirstOverload) != 0 || countType(got, BookmarkScarFormed) != 0 {
		t.Errorf("bookmarks repeated: %+v", got)
	}

	// Scar fires again after healing
	w.DampeningMax = 0
	bd.Check(w)
	w.DampeningMax = 0.6
	if countType(bd.Check(w), BookmarkScarFormed) != 1 {
		t.Error("expected scar bookmark after recovery")
	}
}

func TestBookmarkSettled(t *testing.T) {
	bd := NewBookmarkDetector(5)
	bd.Check(steadyWindow(600))

	quiet := WindowStats{WindowEndFrame: 1200}
	got := bd.Check(quiet)
	if countType(got, BookmarkSettled) != 1 {
		t.Errorf("expected settled bookmark, got %+v", got)
	}
	if countType(bd.Check(quiet), BookmarkSettled) != 0 {
		t.Error("settled should only fire on the transition")
	}
}

func TestBookmarkCollisionBurst(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 0; i < 3; i++ {
		w := steadyWindow(uint64(i+1) * 600)
		w.Collisions = 5
		bd.Check(w)
	}

	w := steadyWindow(2400)
	w.Collisions = 40
	got := bd.Check(w)
	if countType(got, BookmarkCollisionBurst) != 1 {
		t.Errorf("expected collision burst, got %+v", got)
	}

	w.Collisions = 6
	if countType(bd.Check(w), BookmarkCollisionBurst) != 0 {
		t.Error("ordinary window flagged as burst")
	}
}
