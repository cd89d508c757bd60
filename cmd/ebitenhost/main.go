// Ebiten host - the field in an ebiten window with vector strokes.
//
// Usage: go run ./cmd/ebitenhost -config config.yaml
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/pthm-cable/pulsegrid/components"
	"github.com/pthm-cable/pulsegrid/config"
	"github.com/pthm-cable/pulsegrid/style"
	"github.com/pthm-cable/pulsegrid/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	g, err := newHost(cfg, *seed)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetWindowTitle(cfg.Screen.Title)
	if cfg.Screen.TargetFPS > 0 {
		ebiten.SetTPS(cfg.Screen.TargetFPS)
	}
	if cfg.Screen.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(g); err != nil {
		slog.Error("ebiten exited", "error", err)
		os.Exit(1)
	}
}

// host implements ebiten.Game. Update advances the field one tick, Draw
// strokes every segment.
type host struct {
	field  *systems.Field
	clock  *systems.Clock
	styler *style.Styler
	dark   style.Theme
	light  style.Theme

	darkMode bool
	paused   bool
	width    int
	height   int
	start    time.Time

	screen *ebiten.Image // valid during Draw only
}

func newHost(cfg *config.Config, seed int64) (*host, error) {
	dark, light, err := style.Themes(cfg.Theme)
	if err != nil {
		return nil, err
	}
	h := &host{
		field:    systems.NewField(cfg.FieldParams(), float64(cfg.Screen.Width), float64(cfg.Screen.Height), seed),
		clock:    systems.NewClock(cfg.Clock.MaxDelta),
		dark:     dark,
		light:    light,
		darkMode: cfg.Derived.Dark,
		width:    cfg.Screen.Width,
		height:   cfg.Screen.Height,
		start:    time.Now(),
	}
	h.styler = style.NewStyler(cfg.Render, h.theme())
	return h, nil
}

func (h *host) theme() style.Theme {
	if h.darkMode {
		return h.dark
	}
	return h.light
}

func (h *host) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		h.paused = !h.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		h.darkMode = !h.darkMode
		h.styler.SetTheme(h.theme())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		h.field.Reset()
	}

	mx, my := ebiten.CursorPosition()
	if mx >= 0 && my >= 0 && mx < h.width && my < h.height {
		h.field.SetPointer(float64(mx), float64(my))
	} else {
		h.field.ClearPointer()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.field.Click(float64(mx), float64(my))
	}

	dt := h.clock.Advance(time.Since(h.start).Seconds())
	if !h.paused {
		if fs := h.field.Step(dt); fs.StateChanged {
			slog.Debug("field state", "state", fs.State.String(), "frame", fs.Frame)
		}
	}
	return nil
}

func (h *host) Draw(screen *ebiten.Image) {
	screen.Fill(h.theme().Background)
	h.screen = screen
	h.field.Render(h)
	h.screen = nil
}

// DrawSegment implements systems.SegmentSink.
func (h *host) DrawSegment(s components.Segment, value float64) {
	ls := h.styler.Style(value)
	x0, y0, x1, y1 := s.Endpoints(h.field.Grid().CellSize)
	vector.StrokeLine(h.screen, float32(x0), float32(y0), float32(x1), float32(y1), float32(ls.Width), ls.Color, true)
}

func (h *host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		h.width, h.height = outsideWidth, outsideHeight
		h.field.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}
