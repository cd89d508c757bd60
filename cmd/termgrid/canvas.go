package main

import (
	"github.com/pthm-cable/pulsegrid/components"
)

// Terminal character cells are treated as charW x charH surface pixels.
const (
	charW = 10.0
	charH = 20.0
)

const (
	maskVertical uint8 = 1 << iota
	maskHorizontal
)

// cell is one terminal character of the rasterized grid.
type cell struct {
	mask  uint8
	value float64
	lit   bool
}

// canvas rasterizes segments onto terminal characters. It implements
// systems.SegmentSink.
type canvas struct {
	w, h     int
	cellSize float64
	cells    []cell
}

func newCanvas(w, h int, cellSize float64) *canvas {
	c := &canvas{}
	c.resize(w, h, cellSize)
	return c
}

func (c *canvas) resize(w, h int, cellSize float64) {
	c.w, c.h, c.cellSize = w, h, cellSize
	c.cells = make([]cell, max(w*h, 0))
}

// surface returns the pixel size the field should simulate.
func (c *canvas) surface() (float64, float64) {
	return float64(c.w) * charW, float64(c.h) * charH
}

func (c *canvas) clear() {
	clear(c.cells)
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

func (c *canvas) mark(x, y int, m uint8, value float64) {
	ce := c.at(x, y)
	if ce == nil {
		return
	}
	ce.mask |= m
	if !ce.lit || value > ce.value {
		ce.value = value
		ce.lit = true
	}
}

// DrawSegment rasterizes one segment.
func (c *canvas) DrawSegment(s components.Segment, value float64) {
	x0, y0, x1, y1 := s.Endpoints(c.cellSize)
	if s.Orientation == components.Vertical {
		cx := int(x0 / charW)
		for cy := int(y0 / charH); cy < int(y1/charH); cy++ {
			c.mark(cx, cy, maskVertical, value)
		}
		return
	}
	cy := int(y0 / charH)
	for cx := int(x0 / charW); cx < int(x1/charW); cx++ {
		c.mark(cx, cy, maskHorizontal, value)
	}
}

// glyph picks a box-drawing rune for a cell.
func glyph(m uint8) rune {
	switch m {
	case maskVertical:
		return '│'
	case maskHorizontal:
		return '─'
	case maskVertical | maskHorizontal:
		return '┼'
	default:
		return ' '
	}
}
