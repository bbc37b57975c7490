package integrators

import (
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/units"
)

// phase is (x, y, vx, vy) with positions in kpc and velocities in km/s.
type phase [4]float64

// RK4 is the classical fourth-order Runge-Kutta scheme. It is not
// symplectic and is kept for integrator comparisons; like Leapfrog it
// evaluates every stage at the step's time tag.
type RK4 struct {
	k1, k2, k3, k4 phase
}

func NewRK4() *RK4 {
	return &RK4{}
}

// derive returns d(x, y, vx, vy)/dt per second.
func derive(sys dynamo.System, p phase, t float64) phase {
	a := sys.Acceleration(p[0], p[1], t)
	return phase{
		units.DriftKpc(p[2], 1),
		units.DriftKpc(p[3], 1),
		-a.X,
		-a.Y,
	}
}

func (r *RK4) Step(sys dynamo.System, s dynamo.PhaseState, t, dt float64) dynamo.PhaseState {
	h := units.YearsToSeconds(dt)
	x := phase{s.X, s.Y, s.VX, s.VY}

	var scratch phase

	r.k1 = derive(sys, x, t)
	for i := range x {
		scratch[i] = x[i] + h*0.5*r.k1[i]
	}
	r.k2 = derive(sys, scratch, t)

	for i := range x {
		scratch[i] = x[i] + h*0.5*r.k2[i]
	}
	r.k3 = derive(sys, scratch, t)

	for i := range x {
		scratch[i] = x[i] + h*r.k3[i]
	}
	r.k4 = derive(sys, scratch, t)

	h6 := h / 6.0
	var out phase
	for i := range x {
		out[i] = x[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return dynamo.PhaseState{X: out[0], Y: out[1], VX: out[2], VY: out[3], T: t}
}
