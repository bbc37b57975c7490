package integrators

import (
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/units"
)

// Leapfrog is the fixed-step kick-drift-kick scheme. Both half kicks read
// the gradient at the step's time tag t.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, s dynamo.PhaseState, t, dt float64) dynamo.PhaseState {
	dtSec := units.YearsToSeconds(dt)

	a := sys.Acceleration(s.X, s.Y, t)
	vx := s.VX - 0.5*dtSec*a.X
	vy := s.VY - 0.5*dtSec*a.Y

	x := s.X + units.DriftKpc(vx, dtSec)
	y := s.Y + units.DriftKpc(vy, dtSec)

	a = sys.Acceleration(x, y, t)
	vx -= 0.5 * dtSec * a.X
	vy -= 0.5 * dtSec * a.Y

	return dynamo.PhaseState{X: x, Y: y, VX: vx, VY: vy, T: t}
}
