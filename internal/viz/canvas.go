package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set sets the sub-pixel at (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
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
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// OrbitBraille traces a pattern-frame orbit as connected line segments on
// a w x h cell canvas spanning [-extent, extent] kpc on both axes, with the
// given circles (radii in kpc) drawn for reference.
func OrbitBraille(orbit []r2.Vec, circles []float64, extent float64, w, h int) string {
	c := NewCanvas(w, h)
	if extent <= 0 || w < 1 || h < 1 {
		return c.String()
	}

	pw, ph := float64(2*w-1), float64(4*h-1)
	toPixel := func(p r2.Vec) (int, int) {
		x := (p.X + extent) / (2 * extent) * pw
		y := (extent - p.Y) / (2 * extent) * ph
		return int(math.Round(x)), int(math.Round(y))
	}

	for _, r := range circles {
		if r <= 0 {
			continue
		}
		n := 4 * (w + h)
		for k := 0; k < n; k++ {
			sin, cos := math.Sincos(2 * math.Pi * float64(k) / float64(n))
			c.Set(toPixel(r2.Vec{X: r * cos, Y: r * sin}))
		}
	}

	for i := 1; i < len(orbit); i++ {
		x0, y0 := toPixel(orbit[i-1])
		x1, y1 := toPixel(orbit[i])
		c.DrawLine(x0, y0, x1, y1)
	}
	if len(orbit) == 1 {
		c.Set(toPixel(orbit[0]))
	}
	return c.String()
}
