package charts

import (
	"math"

	"github.com/adpena/heartscope/pkg/models"
)

const (
	markerGlyph = '●'
	gridGlyph   = '·'
)

// Plot draws samples as a connected braille line over fixed x and y ranges.
// Samples outside the x range are skipped and values are clamped to the y range.
func Plot(samples []models.Sample, width, height int, x, y models.Range) *Canvas {
	c := NewCanvas(width, height)
	if x.Span() <= 0 || y.Span() <= 0 {
		return c
	}
	if y.Min < 0 && y.Max > 0 {
		row := c.rowFor(0, y)
		for col := 0; col < c.Width; col += 2 {
			c.Glyph(col, row, gridGlyph, KindGrid)
		}
	}
	havePrev := false
	var px0, py0 int
	for _, s := range samples {
		if s.Time < x.Min || s.Time > x.Max || math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			havePrev = false
			continue
		}
		px, py := c.pixelFor(s.Time, s.Value, x, y)
		if havePrev {
			c.Line(px0, py0, px, py)
		} else {
			c.Set(px, py)
		}
		px0, py0 = px, py
		havePrev = true
	}
	return c
}

// Mark overlays a marker glyph at the cell holding (t, v) and reports
// the cell position.
func (c *Canvas) Mark(t, v float64, x, y models.Range) (int, int, bool) {
	if x.Span() <= 0 || y.Span() <= 0 || t < x.Min || t > x.Max {
		return 0, 0, false
	}
	px, py := c.pixelFor(t, v, x, y)
	col, row := px/2, py/4
	c.Glyph(col, row, markerGlyph, KindMarker)
	return col, row, true
}

// Column maps a time onto a cell column, clamped to the canvas.
func (c *Canvas) Column(t float64, x models.Range) int {
	if x.Span() <= 0 {
		return 0
	}
	px := scale(t, x.Min, x.Max, c.PixelWidth()-1)
	return clamp(px, 0, c.PixelWidth()-1) / 2
}

// Row maps a value onto a cell row, clamped to the canvas.
func (c *Canvas) Row(v float64, y models.Range) int {
	if y.Span() <= 0 {
		return 0
	}
	return c.rowFor(v, y)
}

func (c *Canvas) pixelFor(t, v float64, x, y models.Range) (int, int) {
	px := scale(t, x.Min, x.Max, c.PixelWidth()-1)
	// rows grow downwards
	py := c.PixelHeight() - 1 - scale(v, y.Min, y.Max, c.PixelHeight()-1)
	return clamp(px, 0, c.PixelWidth()-1), clamp(py, 0, c.PixelHeight()-1)
}

func (c *Canvas) rowFor(v float64, y models.Range) int {
	py := c.PixelHeight() - 1 - scale(v, y.Min, y.Max, c.PixelHeight()-1)
	return clamp(py, 0, c.PixelHeight()-1) / 4
}

func scale(v, min, max float64, size int) int {
	if max <= min {
		return 0
	}
	return int(math.Round((v - min) / (max - min) * float64(size)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
