package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/frame"
)

// PoincareSection returns (x_R, vx_R) at every upward crossing of the
// pattern-frame x axis (y_R going from negative to non-negative). Both
// coordinates are linearly interpolated to y_R = 0. X is in kpc, Y in km/s.
func PoincareSection(traj frame.Trajectory) []r2.Vec {
	var pts []r2.Vec
	for i := 1; i < len(traj); i++ {
		prev, cur := traj[i-1], traj[i]
		if !(prev.YR < 0 && cur.YR >= 0) {
			continue
		}
		frac := -prev.YR / (cur.YR - prev.YR)
		pts = append(pts, r2.Vec{
			X: prev.XR + frac*(cur.XR-prev.XR),
			Y: prev.VXR + frac*(cur.VXR-prev.VXR),
		})
	}
	return pts
}

// PoincareToASCII scatters section points on a width x height grid fitted
// to their bounds.
func PoincareToASCII(pts []r2.Vec, width, height int) string {
	if len(pts) == 0 {
		return "No crossings detected"
	}
	if width < 2 || height < 2 {
		return ""
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
		minX -= 0.5
	}
	if rangeY == 0 {
		rangeY = 1
		minY -= 0.5
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	for _, p := range pts {
		col := int(math.Floor((p.X - minX) / rangeX * float64(width-1)))
		row := height - 1 - int(math.Floor((p.Y-minY)/rangeY*float64(height-1)))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
