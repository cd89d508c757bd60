package components

// Orientation distinguishes the two segment keyspaces.
type Orientation uint8

const (
	Vertical   Orientation = iota // runs between row boundaries at a fixed column
	Horizontal                    // runs between column boundaries at a fixed row
)

// String returns "vertical" or "horizontal".
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Segment identifies one unit edge of the grid.
// For vertical segments Col is in [0, cols] and Row in [0, rows).
// For horizontal segments Col is in [0, cols) and Row in [0, rows].
type Segment struct {
	Orientation Orientation
	Col, Row    int
}

// Midpoint returns the segment center in grid units.
func (s Segment) Midpoint() (cx, cy float64) {
	if s.Orientation == Vertical {
		return float64(s.Col), float64(s.Row) + 0.5
	}
	return float64(s.Col) + 0.5, float64(s.Row)
}

// Endpoints returns the segment ends in surface pixels.
func (s Segment) Endpoints(cellSize float64) (x1, y1, x2, y2 float64) {
	x1 = float64(s.Col) * cellSize
	y1 = float64(s.Row) * cellSize
	if s.Orientation == Vertical {
		return x1, y1, x1, y1 + cellSize
	}
	return x1, y1, x1 + cellSize, y1
}

// Pointer is the latest pointer position in surface pixels.
// Present is false when the pointer has left the surface.
type Pointer struct {
	X, Y    float64
	Present bool
}
