// Package systems implements the grid-wave field: lattice geometry, the pulse
// registry, intensity accumulation, dampening and the per-frame driver.
package systems

import (
	"math"

	"github.com/pthm-cable/pulsegrid/components"
)

// Grid maps a pixel surface onto a lattice of square cells.
type Grid struct {
	CellSize float64
	Cols     int
	Rows     int
	Width    float64 // surface pixels
	Height   float64
}

// NewGrid computes the lattice covering a width x height surface.
// Partial trailing cells round up; non-positive sizes give an empty grid.
func NewGrid(width, height, cellSize float64) Grid {
	g := Grid{CellSize: cellSize, Width: width, Height: height}
	if cellSize <= 0 {
		return g
	}
	g.Cols = ceilDiv(width, cellSize)
	g.Rows = ceilDiv(height, cellSize)
	return g
}

func ceilDiv(size, cell float64) int {
	if size <= 0 {
		return 0
	}
	return int(math.Ceil(size / cell))
}

// Empty reports whether the grid has no segments.
func (g Grid) Empty() bool {
	return g.Cols == 0 || g.Rows == 0
}

// VerticalCount is the number of vertical segments, (cols+1)*rows.
func (g Grid) VerticalCount() int {
	if g.Empty() {
		return 0
	}
	return (g.Cols + 1) * g.Rows
}

// HorizontalCount is the number of horizontal segments, (rows+1)*cols.
func (g Grid) HorizontalCount() int {
	if g.Empty() {
		return 0
	}
	return (g.Rows + 1) * g.Cols
}

// SegmentCount is the total number of segments in both orientations.
func (g Grid) SegmentCount() int {
	return g.VerticalCount() + g.HorizontalCount()
}

// Index returns the flat array offset for a segment within its orientation.
// Vertical segments use col*rows+row, horizontal ones row*cols+col.
func (g Grid) Index(s components.Segment) int {
	if s.Orientation == components.Vertical {
		return s.Col*g.Rows + s.Row
	}
	return s.Row*g.Cols + s.Col
}

// Contains reports whether the segment exists on this grid.
func (g Grid) Contains(s components.Segment) bool {
	if g.Empty() || s.Col < 0 || s.Row < 0 {
		return false
	}
	if s.Orientation == components.Vertical {
		return s.Col <= g.Cols && s.Row < g.Rows
	}
	return s.Col < g.Cols && s.Row <= g.Rows
}

// ToGrid converts surface pixels to fractional grid coordinates.
func (g Grid) ToGrid(px, py float64) (col, row float64) {
	if g.CellSize <= 0 {
		return 0, 0
	}
	return px / g.CellSize, py / g.CellSize
}

// SnapToGrid converts surface pixels to the nearest lattice node.
func (g Grid) SnapToGrid(px, py float64) (col, row float64) {
	col, row = g.ToGrid(px, py)
	return math.Round(col), math.Round(row)
}

// Bounds returns the lattice extent in grid units. Every segment midpoint
// lies inside [0, cols] x [0, rows].
func (g Grid) Bounds() (maxCol, maxRow float64) {
	return float64(g.Cols), float64(g.Rows)
}

// ForEachSegment visits every vertical segment, then every horizontal one.
func (g Grid) ForEachSegment(fn func(s components.Segment)) {
	if g.Empty() {
		return
	}
	for i := 0; i <= g.Cols; i++ {
		for j := 0; j < g.Rows; j++ {
			fn(components.Segment{Orientation: components.Vertical, Col: i, Row: j})
		}
	}
	for j := 0; j <= g.Rows; j++ {
		for i := 0; i < g.Cols; i++ {
			fn(components.Segment{Orientation: components.Horizontal, Col: i, Row: j})
		}
	}
}
