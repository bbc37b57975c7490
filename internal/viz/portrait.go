package viz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/frame"
	"github.com/san-kum/corotrap/internal/physics"
)

const armSamples = 60

// Circles returns the resonance radii drawn on a portrait: corotation, then
// the Lindblad and ultraharmonic radii that exist.
func Circles(pot *physics.Potential) []float64 {
	res := pot.Resonances()
	out := []float64{res.Corotation}
	for _, r := range []float64{res.InnerLindblad, res.OuterLindblad, res.InnerUltraharmonic, res.OuterUltraharmonic} {
		if r > 0 && !math.IsNaN(r) {
			out = append(out, r)
		}
	}
	return out
}

// Frame selects the reference frame of a portrait.
type Frame int

const (
	Inertial Frame = iota
	Rotating
)

func (f Frame) String() string {
	switch f {
	case Inertial:
		return "inertial"
	case Rotating:
		return "rotating"
	}
	return fmt.Sprintf("Frame(%d)", int(f))
}

// ParseFrame accepts "inertial" or "rotating".
func ParseFrame(s string) (Frame, error) {
	switch s {
	case "inertial":
		return Inertial, nil
	case "rotating":
		return Rotating, nil
	}
	return 0, fmt.Errorf("viz: unknown frame %q", s)
}

// NewPortrait assembles the plot of a run in frame fr. The rotating view
// carries the capture region bounded by the effective potential band,
// resonance circles, spiral arms, the guiding-centre track and the orbit.
// The inertial view keeps the circles, the arms at t = 0 and the orbit.
func NewPortrait(pot *physics.Potential, traj dynamo.Trajectory, rot frame.Trajectory, fr Frame) (*analysis.Portrait, error) {
	switch fr {
	case Inertial:
		orbit := make([]r2.Vec, len(traj))
		for i, s := range traj {
			orbit[i] = s.Pos()
		}
		return &analysis.Portrait{
			Orbit:   orbit,
			Arms:    pot.ArmTrace(armSamples),
			Circles: Circles(pot),
		}, nil
	case Rotating:
	default:
		return nil, fmt.Errorf("viz: unknown frame %d", int(fr))
	}

	guide, err := analysis.GuidingCentreTrack(traj, pot)
	if err != nil {
		return nil, err
	}

	lo, hi := pot.CaptureBand()
	return &analysis.Portrait{
		Orbit:   rot.Positions(),
		Guide:   guide,
		Arms:    pot.ArmTrace(armSamples),
		Circles: Circles(pot),
		Captured: func(r, phiR float64) bool {
			e := pot.EffectivePotential(r, phiR)
			return e >= lo && e <= hi
		},
	}, nil
}

// RenderPortrait draws p as text, using braille line tracing for the orbit
// when braille is set and glyph layers otherwise.
func RenderPortrait(p *analysis.Portrait, w, h int, braille bool) string {
	if !braille {
		return analysis.PortraitToASCII(p, w, h)
	}
	ext := p.Extent
	if ext <= 0 {
		for _, pt := range p.Orbit {
			ext = math.Max(ext, r2.Norm(pt))
		}
		ext *= 1.1
	}
	return OrbitBraille(p.Orbit, p.Circles, ext, w, h)
}
