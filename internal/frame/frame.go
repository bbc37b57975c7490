// Package frame maps inertial trajectories into the frame corotating with
// the spiral pattern.
package frame

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/units"
)

// Sample is one corotating-frame sample. VR and VPhi are the radial and
// tangential velocity in the inertial frame; VPhiR is the tangential
// velocity seen from the pattern.
type Sample struct {
	XR, YR   float64 // kpc
	VXR, VYR float64 // km/s
	VR       float64
	VPhi     float64
	VPhiR    float64
	T        float64 // yr
}

func (s Sample) Pos() r2.Vec     { return r2.Vec{X: s.XR, Y: s.YR} }
func (s Sample) Radius() float64 { return math.Hypot(s.XR, s.YR) }
func (s Sample) PhiR() float64   { return math.Atan2(s.YR, s.XR) }

type Trajectory []Sample

// Rotate transforms one inertial sample. omega is the pattern speed in
// rad/yr; the pattern's linear speed at R (km/s) is derived from it.
func Rotate(s dynamo.PhaseState, omega float64) Sample {
	r, phi, vr, vphi := s.Polar()
	phiR := phi - omega*s.T
	sin, cos := math.Sincos(phiR)

	vphiR := vphi - units.LinearSpeed(omega, r)

	return Sample{
		XR:    r * cos,
		YR:    r * sin,
		VXR:   vr*cos - vphiR*sin,
		VYR:   vr*sin + vphiR*cos,
		VR:    vr,
		VPhi:  vphi,
		VPhiR: vphiR,
		T:     s.T,
	}
}

// ToRotating validates traj and transforms every sample. The result has the
// same length and time tags.
func ToRotating(traj dynamo.Trajectory, omega float64) (Trajectory, error) {
	if err := traj.Validate(); err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	out := make(Trajectory, len(traj))
	for i, s := range traj {
		out[i] = Rotate(s, omega)
	}
	return out, nil
}

// Positions returns the pattern-frame positions for plotting.
func (tr Trajectory) Positions() []r2.Vec {
	pts := make([]r2.Vec, len(tr))
	for i, s := range tr {
		pts[i] = s.Pos()
	}
	return pts
}
