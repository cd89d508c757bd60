package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	chimeFreq     = 660
	chimeLength   = 60 * time.Millisecond
	chimeCooldown = 400 * time.Millisecond
)

// chime plays a short tone when collisions start burning.
// All methods are no-ops until init succeeds.
type chime struct {
	mu       sync.Mutex
	ready    bool
	burning  bool
	lastPlay time.Time
}

func newChime() *chime {
	return &chime{}
}

func (c *chime) init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	c.ready = true
	return nil
}

// collisions is called once per frame. A tone plays when a frame with
// burning segments follows a quiet one, at most once per cooldown.
func (c *chime) collisions(burning bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	onset := burning && !c.burning
	c.burning = burning
	if !c.ready || !onset {
		return
	}
	now := time.Now()
	if now.Sub(c.lastPlay) < chimeCooldown {
		return
	}
	c.lastPlay = now

	sine, err := generators.SineTone(sampleRate, chimeFreq)
	if err != nil {
		return
	}
	quiet := &effects.Volume{Streamer: beep.Take(sampleRate.N(chimeLength), sine), Base: 2, Volume: -2}
	speaker.Play(quiet)
}

func (c *chime) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		speaker.Close()
		c.ready = false
	}
}
