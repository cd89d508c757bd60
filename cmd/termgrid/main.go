// Terminal host - draws the field with box-drawing characters.
//
// Usage: go run ./cmd/termgrid -sound
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/pulsegrid/config"
	"github.com/pthm-cable/pulsegrid/style"
	"github.com/pthm-cable/pulsegrid/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	sound := flag.Bool("sound", false, "Chime when pulses collide")
	logPath := flag.String("log", "", "Write JSON logs to this file (the terminal is busy)")
	flag.Parse()

	logOut, err := openLog(*logPath)
	if err != nil {
		slog.Error("failed to open log", "error", err)
		os.Exit(1)
	}
	defer logOut.Close()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		slog.Error("failed to open terminal", "error", err)
		os.Exit(1)
	}

	h, err := newHost(cfg, screen, *seed)
	if err != nil {
		screen.Fini()
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer h.close()

	if *sound {
		if err := h.chime.init(); err != nil {
			// Non-fatal, the grid runs without sound
			slog.Warn("audio initialization failed", "error", err)
		}
	}

	h.run()
}

// openLog returns the log destination; discard when no path is given.
func openLog(path string) (*os.File, error) {
	if path == "" {
		return os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// host owns the terminal, the field and the frame loop.
type host struct {
	cfg    *config.Config
	screen tcell.Screen
	field  *systems.Field
	clock  *systems.Clock
	canvas *canvas
	styler *style.Styler
	dark   style.Theme
	light  style.Theme
	chime  *chime

	darkMode bool
	paused   bool
	buttons  tcell.ButtonMask // from the previous mouse event
	start    time.Time
}

// newHost wraps an initialized screen.
func newHost(cfg *config.Config, screen tcell.Screen, seed int64) (*host, error) {
	dark, light, err := style.Themes(cfg.Theme)
	if err != nil {
		return nil, err
	}

	screen.EnableMouse()
	screen.HideCursor()

	w, hgt := screen.Size()
	c := newCanvas(w, hgt, cfg.Grid.CellSize)
	sw, sh := c.surface()

	h := &host{
		cfg:      cfg,
		screen:   screen,
		field:    systems.NewField(cfg.FieldParams(), sw, sh, seed),
		clock:    systems.NewClock(cfg.Clock.MaxDelta),
		canvas:   c,
		dark:     dark,
		light:    light,
		darkMode: cfg.Derived.Dark,
		chime:    newChime(),
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

func (h *host) close() {
	h.chime.close()
	h.screen.Fini()
}

// run polls terminal events on a goroutine and drives frames on a ticker.
// The field is only touched from this goroutine.
func (h *host) run() {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	fps := h.cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !h.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			h.frame()
		}
	}
}

// handleEvent applies one terminal event. Returns false to quit.
func (h *host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				h.paused = !h.paused
			case 't':
				h.darkMode = !h.darkMode
				h.styler.SetTheme(h.theme())
			case 'r':
				h.field.Reset()
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := (float64(x)+0.5)*charW, (float64(y)+0.5)*charH
		h.field.SetPointer(px, py)
		// Held-button motion arrives as more Button1 events; spawn on the press only
		btn := ev.Buttons()
		if btn&tcell.Button1 != 0 && h.buttons&tcell.Button1 == 0 {
			h.field.Click(px, py)
		}
		h.buttons = btn
	case *tcell.EventResize:
		w, hgt := h.screen.Size()
		h.canvas.resize(w, hgt, h.cfg.Grid.CellSize)
		h.field.Resize(h.canvas.surface())
		h.screen.Sync()
	}
	return true
}

func (h *host) frame() {
	dt := h.clock.Advance(time.Since(h.start).Seconds())
	if !h.paused {
		fs := h.field.Step(dt)
		h.chime.collisions(fs.Collisions > 0)
		if fs.StateChanged {
			slog.Debug("field state", "state", fs.State.String(), "frame", fs.Frame)
		}
	}

	h.canvas.clear()
	h.field.Render(h.canvas)
	h.draw()
}

func (h *host) draw() {
	t := h.theme()
	bg := tcell.NewRGBColor(int32(t.Background.R), int32(t.Background.G), int32(t.Background.B))
	base := tcell.StyleDefault.Background(bg)

	for y := 0; y < h.canvas.h; y++ {
		for x := 0; x < h.canvas.w; x++ {
			ce := h.canvas.at(x, y)
			if ce.mask == 0 {
				h.screen.SetContent(x, y, ' ', nil, base)
				continue
			}
			ls := h.styler.Style(ce.value)
			// Terminals have no alpha; fold opacity into the colour
			c := style.Blend(t.Background, ls.Color, ls.Alpha)
			fg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			st := base.Foreground(fg)
			if ls.Tier == style.TierOverload {
				st = st.Bold(true)
			}
			h.screen.SetContent(x, y, glyph(ce.mask), nil, st)
		}
	}
	h.screen.Show()
}
