package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of Braille cells addressed in dots: Width*2 by Height*4.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// TrackPlot draws the path (xs[i], zs[i]) on a w by h cell canvas. The
// shallowest point is the top row, so a dive runs down the page.
func TrackPlot(xs, zs []float64, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	c := NewCanvas(w, h)
	n := min(len(xs), len(zs))
	if n == 0 {
		return c.String()
	}

	xlo, xhi := bounds(xs[:n])
	zlo, zhi := bounds(zs[:n])
	dotsX, dotsY := float64(w*2-1), float64(h*4-1)
	project := func(x, z float64) (int, int) {
		return int(math.Round((x - xlo) / (xhi - xlo) * dotsX)),
			int(math.Round((z - zlo) / (zhi - zlo) * dotsY))
	}

	first := true
	var px, py int
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(zs[i]) {
			continue
		}
		x, y := project(xs[i], zs[i])
		if first {
			c.Set(x, y)
			first = false
		} else {
			c.DrawLine(px, py, x, y)
		}
		px, py = x, y
	}
	return c.String()
}

// bounds returns the finite range of v, widened when it is degenerate.
func bounds(v []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range v {
		if !finite(x) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo > hi {
		return 0, 1
	}
	if hi-lo < 1e-9 {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
