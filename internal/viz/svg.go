package viz

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/analysis"
)

const svgCaptureCells = 120

// PortraitToSVG draws the portrait as a size x size SVG image: capture
// region, resonance circles, arms, guiding-centre track and orbit.
func PortraitToSVG(p *analysis.Portrait, size int) string {
	if p == nil || len(p.Orbit) == 0 || size <= 0 {
		return ""
	}

	ext := p.Extent
	if ext <= 0 {
		for _, pt := range p.Orbit {
			ext = math.Max(ext, r2.Norm(pt))
		}
		ext *= 1.1
	}
	if ext == 0 {
		ext = 1
	}
	scale := float64(size) / (2 * ext)
	toSVG := func(pt r2.Vec) (float64, float64) {
		return (pt.X + ext) * scale, (ext - pt.Y) * scale
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	if p.Captured != nil {
		cell := 2 * ext / svgCaptureCells
		sb.WriteString(`<g fill="#334455">` + "\n")
		for i := 0; i < svgCaptureCells; i++ {
			for j := 0; j < svgCaptureCells; j++ {
				x := -ext + (float64(i)+0.5)*cell
				y := ext - (float64(j)+0.5)*cell
				r := math.Hypot(x, y)
				if r == 0 || !p.Captured(r, math.Atan2(y, x)) {
					continue
				}
				fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
					float64(i)*cell*scale, float64(j)*cell*scale, cell*scale+0.5, cell*scale+0.5)
			}
		}
		sb.WriteString("</g>\n")
	}

	cx, cy := toSVG(r2.Vec{})
	for _, radius := range p.Circles {
		if radius <= 0 {
			continue
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#666688" stroke-dasharray="4 3"/>`+"\n",
			cx, cy, radius*scale)
	}

	for _, arm := range p.Arms {
		writePath(&sb, arm, toSVG, "#ff00ff", 2)
	}
	writePath(&sb, p.Guide, toSVG, "#ffaa00", 1)
	writePath(&sb, p.Orbit, toSVG, "#00ff88", 1.5)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePath(sb *strings.Builder, pts []r2.Vec, toSVG func(r2.Vec) (float64, float64), stroke string, width float64) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, stroke, width)
	for i, pt := range pts {
		x, y := toSVG(pt)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>` + "\n")
}
