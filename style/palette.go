package style

import (
	"fmt"
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"

	"github.com/pthm-cable/pulsegrid/config"
)

// Theme is a resolved palette.
type Theme struct {
	Name       string
	Dark       bool
	Background color.NRGBA
	Baseline   color.NRGBA
	Accent     color.NRGBA
	Hot        color.NRGBA
}

// NewTheme converts a configured HSV palette to RGB.
func NewTheme(name string, dark bool, p config.PaletteConfig) (Theme, error) {
	t := Theme{Name: name, Dark: dark}
	entries := []struct {
		field string
		hsv   config.HSV
		dst   *color.NRGBA
	}{
		{"background", p.Background, &t.Background},
		{"baseline", p.Baseline, &t.Baseline},
		{"accent", p.Accent, &t.Accent},
		{"hot", p.Hot, &t.Hot},
	}
	for _, e := range entries {
		c, err := FromHSV(e.hsv)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %s %s: %w", name, e.field, err)
		}
		*e.dst = c
	}
	return t, nil
}

// Themes resolves both configured palettes.
func Themes(c config.ThemeConfig) (dark, light Theme, err error) {
	dark, err = NewTheme("dark", true, c.Dark)
	if err != nil {
		return Theme{}, Theme{}, err
	}
	light, err = NewTheme("light", false, c.Light)
	if err != nil {
		return Theme{}, Theme{}, err
	}
	return dark, light, nil
}

// FromHSV converts an opaque HSV colour.
func FromHSV(h config.HSV) (color.NRGBA, error) {
	r, g, b, err := colorconv.HSVToRGB(math.Mod(h.H, 360), h.S, h.V)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// WithAlpha returns c with opacity a in [0,1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = unit8(a)
	return c
}

// Blend composites fg at opacity a over an opaque bg.
// Used by hosts without an alpha channel.
func Blend(bg, fg color.NRGBA, a float64) color.NRGBA {
	a = math.Max(0, math.Min(1, a))
	mix := func(b, f uint8) uint8 {
		return uint8(math.Round(float64(b)*(1-a) + float64(f)*a))
	}
	return color.NRGBA{R: mix(bg.R, fg.R), G: mix(bg.G, fg.G), B: mix(bg.B, fg.B), A: 255}
}

func unit8(a float64) uint8 {
	if a <= 0 {
		return 0
	}
	if a >= 1 {
		return 255
	}
	return uint8(math.Round(a * 255))
}
