// Package renderer draws the field with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pulsegrid/components"
	"github.com/pthm-cable/pulsegrid/style"
)

// TierCounts is the number of segments drawn per tier in the last frame.
type TierCounts struct {
	Baseline int
	Wave     int
	Overload int
}

// GridRenderer strokes every segment with the style for its value.
// It implements systems.SegmentSink.
type GridRenderer struct {
	styler   *style.Styler
	cellSize float32
	counts   TierCounts
}

// NewGridRenderer creates a grid renderer.
func NewGridRenderer(styler *style.Styler, cellSize float64) *GridRenderer {
	return &GridRenderer{styler: styler, cellSize: float32(cellSize)}
}

// SetCellSize updates the pixel size of a cell.
func (r *GridRenderer) SetCellSize(cellSize float64) {
	r.cellSize = float32(cellSize)
}

// Begin resets per-frame counters. Call before Field.Render.
func (r *GridRenderer) Begin() {
	r.counts = TierCounts{}
}

// Counts returns the tier counts since the last Begin.
func (r *GridRenderer) Counts() TierCounts {
	return r.counts
}

// DrawSegment draws one segment.
func (r *GridRenderer) DrawSegment(s components.Segment, value float64) {
	ls := r.styler.Style(value)
	switch ls.Tier {
	case style.TierBaseline:
		r.counts.Baseline++
	case style.TierWave:
		r.counts.Wave++
	default:
		r.counts.Overload++
	}

	x1 := float32(s.Col) * r.cellSize
	y1 := float32(s.Row) * r.cellSize
	x2, y2 := x1, y1
	if s.Orientation == components.Vertical {
		y2 += r.cellSize
	} else {
		x2 += r.cellSize
	}

	rl.DrawLineEx(
		rl.Vector2{X: x1, Y: y1},
		rl.Vector2{X: x2, Y: y2},
		float32(ls.Width),
		ToColor(ls.Color),
	)
}

// ToColor converts a non-premultiplied colour to raylib's.
func ToColor(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
