package systems

import (
	"testing"

	"github.com/pthm-cable/pulsegrid/components"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		cellSize      float64
		wantCols      int
		wantRows      int
	}{
		{"exact fit", 400, 400, 40, 10, 10},
		{"partial trailing cell", 410, 399, 40, 11, 10},
		{"smaller than one cell", 10, 10, 40, 1, 1},
		{"zero surface", 0, 0, 40, 0, 0},
		{"negative surface", -100, 200, 40, 0, 5},
		{"zero cell size", 400, 400, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(tt.width, tt.height, tt.cellSize)
			if g.Cols != tt.wantCols || g.Rows != tt.wantRows {
				t.Errorf("NewGrid(%v, %v, %v) = %dx%d, want %dx%d",
					tt.width, tt.height, tt.cellSize, g.Cols, g.Rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestGridSegmentCounts(t *testing.T) {
	g := NewGrid(400, 200, 40) // 10 x 5

	if got := g.VerticalCount(); got != 11*5 {
		t.Errorf("VerticalCount = %d, want %d", got, 11*5)
	}
	if got := g.HorizontalCount(); got != 6*10 {
		t.Errorf("HorizontalCount = %d, want %d", got, 6*10)
	}

	visited := 0
	seen := make(map[components.Segment]bool)
	g.ForEachSegment(func(s components.Segment) {
		visited++
		if seen[s] {
			t.Errorf("segment %+v visited twice", s)
		}
		seen[s] = true
		if !g.Contains(s) {
			t.Errorf("visited segment %+v not contained in grid", s)
		}
	})
	if visited != g.SegmentCount() {
		t.Errorf("visited %d segments, want %d", visited, g.SegmentCount())
	}
}

func TestGridIndexUnique(t *testing.T) {
	g := NewGrid(120, 80, 40) // 3 x 2

	vert := make(map[int]bool)
	horiz := make(map[int]bool)
	g.ForEachSegment(func(s components.Segment) {
		idx := g.Index(s)
		m, limit := vert, g.VerticalCount()
		if s.Orientation == components.Horizontal {
			m, limit = horiz, g.HorizontalCount()
		}
		if idx < 0 || idx >= limit {
			t.Fatalf("index %d out of range [0,%d) for %+v", idx, limit, s)
		}
		if m[idx] {
			t.Fatalf("index %d reused for %+v", idx, s)
		}
		m[idx] = true
	})
}

func TestEmptyGridHasNoSegments(t *testing.T) {
	g := NewGrid(0, 0, 40)
	if !g.Empty() {
		t.Fatal("expected empty grid")
	}
	g.ForEachSegment(func(s components.Segment) {
		t.Errorf("unexpected segment %+v", s)
	})
	if g.Contains(components.Segment{}) {
		t.Error("empty grid should contain nothing")
	}
}

func TestGridCoordinates(t *testing.T) {
	g := NewGrid(400, 400, 40)

	col, row := g.ToGrid(100, 60)
	if col != 2.5 || row != 1.5 {
		t.Errorf("ToGrid(100, 60) = (%v, %v), want (2.5, 1.5)", col, row)
	}

	col, row = g.SnapToGrid(100, 50)
	if col != 3 || row != 1 {
		t.Errorf("SnapToGrid(100, 50) = (%v, %v), want (3, 1)", col, row)
	}
}

func TestSegmentGeometry(t *testing.T) {
	v := components.Segment{Orientation: components.Vertical, Col: 2, Row: 3}
	cx, cy := v.Midpoint()
	if cx != 2 || cy != 3.5 {
		t.Errorf("vertical midpoint = (%v, %v), want (2, 3.5)", cx, cy)
	}
	x1, y1, x2, y2 := v.Endpoints(40)
	if x1 != 80 || y1 != 120 || x2 != 80 || y2 != 160 {
		t.Errorf("vertical endpoints = (%v,%v)-(%v,%v)", x1, y1, x2, y2)
	}

	h := components.Segment{Orientation: components.Horizontal, Col: 2, Row: 3}
	cx, cy = h.Midpoint()
	if cx != 2.5 || cy != 3 {
		t.Errorf("horizontal midpoint = (%v, %v), want (2.5, 3)", cx, cy)
	}
	x1, y1, x2, y2 = h.Endpoints(40)
	if x1 != 80 || y1 != 120 || x2 != 120 || y2 != 120 {
		t.Errorf("horizontal endpoints = (%v,%v)-(%v,%v)", x1, y1, x2, y2)
	}
}
