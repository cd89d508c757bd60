package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pulsegrid/style"
)

// fadeFraction is the share of the surface height covered by the bottom fade.
const fadeFraction = 0.25

// Background clears the surface and draws the bottom fade overlay.
type Background struct {
	theme style.Theme
	fade  bool
}

// NewBackground creates a background for the given theme.
func NewBackground(theme style.Theme, fade bool) *Background {
	return &Background{theme: theme, fade: fade}
}

// SetTheme swaps the palette.
func (b *Background) SetTheme(t style.Theme) { b.theme = t }

// Clear fills the surface with the background colour.
func (b *Background) Clear() {
	rl.ClearBackground(ToColor(b.theme.Background))
}

// DrawOverlay fades the lower part of the surface into the background.
// Drawn after the grid.
func (b *Background) DrawOverlay(width, height int32) {
	if !b.fade || width <= 0 || height <= 0 {
		return
	}
	h := int32(float32(height) * fadeFraction)
	top := ToColor(style.WithAlpha(b.theme.Background, 0))
	bottom := ToColor(b.theme.Background)
	rl.DrawRectangleGradientV(0, height-h, width, h, top, bottom)
}
