package charts

import "strings"

type Kind int

const (
	KindEmpty Kind = iota
	KindGrid
	KindTrace
	KindMarker
)

// braille dot bits indexed by [x%2][y%4]
var dotBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a grid of terminal cells, each holding 2x4 braille dots.
type Canvas struct {
	Width  int
	Height int
	dots   [][]rune
	glyphs [][]rune
	kinds  [][]Kind
}

func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c := &Canvas{Width: width, Height: height}
	c.dots = make([][]rune, height)
	c.glyphs = make([][]rune, height)
	c.kinds = make([][]Kind, height)
	for row := 0; row < height; row++ {
		c.dots[row] = make([]rune, width)
		c.glyphs[row] = make([]rune, width)
		c.kinds[row] = make([]Kind, width)
	}
	return c
}

// PixelWidth and PixelHeight are the dot resolution.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

func (c *Canvas) Set(px, py int) {
	if px < 0 || py < 0 || px >= c.PixelWidth() || py >= c.PixelHeight() {
		return
	}
	col, row := px/2, py/4
	c.dots[row][col] |= dotBits[px%2][py%4]
	if c.kinds[row][col] < KindTrace {
		c.kinds[row][col] = KindTrace
	}
}

// Line connects two dots.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Glyph places a full-cell character, replacing any dots in that cell.
func (c *Canvas) Glyph(col, row int, ch rune, kind Kind) {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return
	}
	if c.kinds[row][col] > kind {
		return
	}
	c.glyphs[row][col] = ch
	c.kinds[row][col] = kind
}

func (c *Canvas) KindAt(col, row int) Kind {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return KindEmpty
	}
	return c.kinds[row][col]
}

func (c *Canvas) cell(col, row int) rune {
	if g := c.glyphs[row][col]; g != 0 && c.kinds[row][col] != KindTrace {
		return g
	}
	if d := c.dots[row][col]; d != 0 {
		return 0x2800 + d
	}
	return ' '
}

// Rows renders each row; style wraps runs of cells sharing a kind.
func (c *Canvas) Rows(style func(kind Kind, text string) string) []string {
	if style == nil {
		style = func(_ Kind, text string) string { return text }
	}
	out := make([]string, 0, c.Height)
	for row := 0; row < c.Height; row++ {
		var line strings.Builder
		var run []rune
		runKind := KindEmpty
		for col := 0; col < c.Width; col++ {
			kind := c.kinds[row][col]
			if kind != runKind && len(run) > 0 {
				line.WriteString(style(runKind, string(run)))
				run = run[:0]
			}
			runKind = kind
			run = append(run, c.cell(col, row))
		}
		if len(run) > 0 {
			line.WriteString(style(runKind, string(run)))
		}
		out = append(out, line.String())
	}
	return out
}

func (c *Canvas) String() string {
	return strings.Join(c.Rows(nil), "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
