// Package style maps displayed segment intensity onto line appearance.
// It is host-agnostic: the raylib renderer, the ebiten host and the
// terminal host all draw from the same LineStyle.
package style

import (
	"image/color"
	"math"

	"github.com/pthm-cable/pulsegrid/config"
)

// Tier classifies a displayed value.
type Tier uint8

const (
	TierBaseline Tier = iota // inert grid line
	TierWave                 // accent, scales with intensity
	TierOverload             // hot, wider
)

func (t Tier) String() string {
	switch t {
	case TierBaseline:
		return "baseline"
	case TierWave:
		return "wave"
	case TierOverload:
		return "overload"
	default:
		return "unknown"
	}
}

// LineStyle is how one segment should be stroked.
type LineStyle struct {
	Tier  Tier
	Color color.NRGBA // Alpha already applied
	Alpha float64
	Width float64 // Pixels
}

// Styler turns displayed values into line styles for the active theme.
type Styler struct {
	params config.RenderConfig
	theme  Theme
}

// NewStyler creates a styler.
func NewStyler(params config.RenderConfig, theme Theme) *Styler {
	return &Styler{params: params, theme: theme}
}

// SetTheme swaps the palette.
func (s *Styler) SetTheme(t Theme) { s.theme = t }

// Theme returns the active palette.
func (s *Styler) Theme() Theme { return s.theme }

// Params returns the render constants.
func (s *Styler) Params() config.RenderConfig { return s.params }

// Classify returns the tier for a displayed value.
func (s *Styler) Classify(v float64) Tier {
	switch {
	case v <= s.params.BaselineThreshold:
		return TierBaseline
	case v <= s.params.OverloadThreshold:
		return TierWave
	default:
		return TierOverload
	}
}

// Style maps a displayed value to a line style.
func (s *Styler) Style(v float64) LineStyle {
	p := &s.params
	tier := s.Classify(v)

	switch tier {
	case TierBaseline:
		return LineStyle{
			Tier:  tier,
			Color: WithAlpha(s.theme.Baseline, p.BaselineAlpha),
			Alpha: p.BaselineAlpha,
			Width: 1,
		}
	case TierWave:
		alpha := math.Min(p.AlphaBase+v*p.AlphaGain, p.WaveAlphaCap)
		return LineStyle{
			Tier:  tier,
			Color: WithAlpha(s.theme.Accent, alpha),
			Alpha: alpha,
			Width: 1 + v*p.WidthGain,
		}
	default:
		alpha := math.Min(p.AlphaBase+v*p.AlphaGain, p.OverloadAlphaCap)
		return LineStyle{
			Tier:  tier,
			Color: WithAlpha(s.theme.Hot, alpha),
			Alpha: alpha,
			Width: (1 + v*p.WidthGain) * p.OverloadWidthScale,
		}
	}
}
