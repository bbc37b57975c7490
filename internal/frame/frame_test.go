package frame

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/units"
)

var omega = units.PatternSpeed(220, 8)

func sampleTrajectory() dynamo.Trajectory {
	return dynamo.Trajectory{
		{X: -10.79, Y: 1.29787, VX: 27.5492, VY: -176.19, T: 0},
		{X: 3, Y: 4, VX: -150, VY: 90, T: 1e8},
		{X: -2, Y: -7.5, VX: 200, VY: -20, T: 2e8},
		{X: 8, Y: 0.1, VX: 5, VY: 221, T: 3e8},
	}
}

func TestRadiusIsFrameInvariant(t *testing.T) {
	traj := sampleTrajectory()
	rot, err := ToRotating(traj, omega)
	if err != nil {
		t.Fatalf("ToRotating: %v", err)
	}
	if len(rot) != len(traj) {
		t.Fatalf("expected %d samples, got %d", len(traj), len(rot))
	}

	for i := range traj {
		if !scalar.EqualWithinAbsOrRel(rot[i].Radius(), traj[i].Radius(), 1e-12, 1e-12) {
			t.Errorf("sample %d: radius %g, expected %g", i, rot[i].Radius(), traj[i].Radius())
		}
		if rot[i].T != traj[i].T {
			t.Errorf("sample %d: time tag changed", i)
		}
	}
}

func TestIdentityAtTimeZero(t *testing.T) {
	s := dynamo.PhaseState{X: -10.79, Y: 1.29787, VX: 27.5492, VY: -176.19}
	got := Rotate(s, omega)

	if !scalar.EqualWithinAbs(got.XR, s.X, 1e-12) || !scalar.EqualWithinAbs(got.YR, s.Y, 1e-12) {
		t.Errorf("position changed at t=0: (%g, %g)", got.XR, got.YR)
	}

	// Only the pattern's linear speed is removed from the tangential component.
	wantVPhiR := got.VPhi - units.LinearSpeed(omega, s.Radius())
	if !scalar.EqualWithinAbs(got.VPhiR, wantVPhiR, 1e-9) {
		t.Errorf("vphiR = %g, expected %g", got.VPhiR, wantVPhiR)
	}
}

func TestZeroPatternSpeedPreservesVelocity(t *testing.T) {
	for i, s := range sampleTrajectory() {
		got := Rotate(s, 0)
		if !scalar.EqualWithinAbs(got.VXR, s.VX, 1e-9) || !scalar.EqualWithinAbs(got.VYR, s.VY, 1e-9) {
			t.Errorf("sample %d: velocity (%g, %g), expected (%g, %g)", i, got.VXR, got.VYR, s.VX, s.VY)
		}
		if !scalar.EqualWithinAbs(got.VPhi, got.VPhiR, 1e-12) {
			t.Errorf("sample %d: vphiR should equal vphi without rotation", i)
		}
	}
}

func TestRotatedVelocityNorm(t *testing.T) {
	for i, s := range sampleTrajectory() {
		got := Rotate(s, omega)
		want := math.Hypot(got.VR, got.VPhiR)
		if !scalar.EqualWithinAbs(math.Hypot(got.VXR, got.VYR), want, 1e-9) {
			t.Errorf("sample %d: |vR| = %g, expected %g", i, math.Hypot(got.VXR, got.VYR), want)
		}
	}
}

func TestCorotatingStarIsStationary(t *testing.T) {
	// A star on the corotation circle moving at vc has no velocity in the
	// pattern frame and keeps its pattern azimuth.
	period := 2 * math.Pi / omega
	for _, tt := range []float64{0, period / 8, period / 3} {
		phi := omega * tt
		s := dynamo.PhaseState{
			X: 8 * math.Cos(phi), Y: 8 * math.Sin(phi),
			VX: -220 * math.Sin(phi), VY: 220 * math.Cos(phi),
			T: tt,
		}
		got := Rotate(s, omega)
		if !scalar.EqualWithinAbs(got.VPhiR, 0, 1e-9) {
			t.Errorf("t=%g: vphiR = %g", tt, got.VPhiR)
		}
		if !scalar.EqualWithinAbs(got.XR, 8, 1e-9) || !scalar.EqualWithinAbs(got.YR, 0, 1e-9) {
			t.Errorf("t=%g: position (%g, %g), expected (8, 0)", tt, got.XR, got.YR)
		}
	}
}

func TestRejectsMalformedTrajectory(t *testing.T) {
	traj := sampleTrajectory()
	traj[2].T = traj[1].T

	_, err := ToRotating(traj, omega)
	if !errors.Is(err, dynamo.ErrMalformedTrajectory) {
		t.Errorf("expected ErrMalformedTrajectory, got %v", err)
	}
}
