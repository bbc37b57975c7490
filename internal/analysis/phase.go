package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Portrait holds the layers of a pattern-frame orbit plot. Layers are drawn
// in order: capture region, resonance circles, arms, guiding centre, orbit.
type Portrait struct {
	Orbit   []r2.Vec
	Guide   []r2.Vec
	Arms    [][]r2.Vec
	Circles []float64 // radii [kpc]

	// Captured reports whether a pattern-frame point lies in the capture
	// region. Nil disables the layer.
	Captured func(r, phiR float64) bool

	// Extent is the half-width of the plotted square [kpc]. Zero fits the
	// orbit with 10% padding.
	Extent float64
}

func (p *Portrait) extent() float64 {
	if p.Extent > 0 {
		return p.Extent
	}
	maxR := 0.0
	for _, pt := range p.Orbit {
		maxR = math.Max(maxR, r2.Norm(pt))
	}
	if maxR == 0 {
		return 1
	}
	return maxR * 1.1
}

// PortraitToASCII renders the portrait on a width x height character grid
// centred on the galactic centre.
func PortraitToASCII(p *Portrait, width, height int) string {
	if p == nil || len(p.Orbit) == 0 || width < 2 || height < 2 {
		return ""
	}

	ext := p.extent()
	minX, maxX := -ext, ext
	minY, maxY := -ext, ext
	rangeX := maxX - minX
	rangeY := maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	toCell := func(pt r2.Vec) (row, col int, ok bool) {
		col = int(math.Floor((pt.X - minX) / rangeX * float64(width-1)))
		row = height - 1 - int(math.Floor((pt.Y-minY)/rangeY*float64(height-1)))
		return row, col, row >= 0 && row < height && col >= 0 && col < width
	}
	plot := func(pt r2.Vec, ch rune) {
		if row, col, ok := toCell(pt); ok {
			canvas[row][col] = ch
		}
	}

	if p.Captured != nil {
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				x := minX + float64(col)/float64(width-1)*rangeX
				y := minY + float64(height-1-row)/float64(height-1)*rangeY
				r := math.Hypot(x, y)
				if r > 0 && p.Captured(r, math.Atan2(y, x)) {
					canvas[row][col] = '░'
				}
			}
		}
	}

	// Axes through the centre.
	if row, col, ok := toCell(r2.Vec{}); ok {
		for r := 0; r < height; r++ {
			if canvas[r][col] == ' ' {
				canvas[r][col] = '│'
			}
		}
		for c := 0; c < width; c++ {
			if canvas[row][c] == ' ' {
				canvas[row][c] = '─'
			}
		}
	}

	for _, radius := range p.Circles {
		if radius <= 0 {
			continue
		}
		n := 4 * (width + height)
		for k := 0; k < n; k++ {
			theta := 2 * math.Pi * float64(k) / float64(n)
			plot(r2.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}, '·')
		}
	}

	for _, arm := range p.Arms {
		for _, pt := range arm {
			plot(pt, '~')
		}
	}
	for _, pt := range p.Guide {
		plot(pt, '+')
	}
	for _, pt := range p.Orbit {
		plot(pt, '•')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
