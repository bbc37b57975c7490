package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PhaseState is one inertial-frame sample: position in kpc, velocity in km/s
// and time in yr.
type PhaseState struct {
	X, Y   float64
	VX, VY float64
	T      float64
}

func (s PhaseState) Radius() float64 { return math.Hypot(s.X, s.Y) }
func (s PhaseState) Phi() float64    { return math.Atan2(s.Y, s.X) }
func (s PhaseState) Speed() float64  { return math.Hypot(s.VX, s.VY) }

// Polar decomposes the sample into radius, azimuth and the radial and
// tangential velocity components relative to the position vector.
func (s PhaseState) Polar() (r, phi, vr, vphi float64) {
	r = s.Radius()
	phi = s.Phi()
	speed := s.Speed()
	sin, cos := math.Sincos(math.Atan2(s.VY, s.VX) - phi)
	return r, phi, speed * cos, speed * sin
}

// AngularMomentum returns L_z = R * vphi in kpc km/s.
func (s PhaseState) AngularMomentum() float64 {
	r, _, _, vphi := s.Polar()
	return r * vphi
}

func (s PhaseState) Pos() r2.Vec { return r2.Vec{X: s.X, Y: s.Y} }
func (s PhaseState) Vel() r2.Vec { return r2.Vec{X: s.VX, Y: s.VY} }

// Row returns the sample in canonical column order x, y, vx, vy, t.
func (s PhaseState) Row() []float64 {
	return []float64{s.X, s.Y, s.VX, s.VY, s.T}
}

func (s PhaseState) IsValid() bool {
	for _, v := range s.Row() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AtOrigin reports whether the position sits on the coordinate singularity.
func (s PhaseState) AtOrigin() bool { return s.X == 0 && s.Y == 0 }

// Trajectory is a time-ordered sequence of phase states on a fixed step.
// Once produced it is never mutated.
type Trajectory []PhaseState

// CanonicalColumns is the column order used by Rows and FromRows.
var CanonicalColumns = []string{"x", "y", "vx", "vy", "t"}

// spacingTolerance is the relative tolerance on equal time spacing. Dumps
// written as text lose precision in the time column.
const spacingTolerance = 1e-6

// Validate checks the invariants every downstream consumer relies on:
// non-empty, finite, away from the origin, strictly increasing and equally
// spaced time tags.
func (tr Trajectory) Validate() error {
	if len(tr) == 0 {
		return malformed(0, "empty trajectory")
	}
	step := tr.Step()
	for i, s := range tr {
		if !s.IsValid() {
			return malformed(i, "non-finite value")
		}
		if s.AtOrigin() {
			return malformed(i, "position at R = 0")
		}
		if i == 0 {
			continue
		}
		dt := s.T - tr[i-1].T
		if dt <= 0 {
			return malformed(i, "time not strictly increasing (%g after %g)", s.T, tr[i-1].T)
		}
		if math.Abs(dt-step) > spacingTolerance*step {
			return malformed(i, "uneven time spacing (%g, expected %g)", dt, step)
		}
	}
	return nil
}

// Step returns the time spacing, or 0 for a single-sample trajectory.
func (tr Trajectory) Step() float64 {
	if len(tr) < 2 {
		return 0
	}
	return tr[1].T - tr[0].T
}

func (tr Trajectory) Clone() Trajectory {
	c := make(Trajectory, len(tr))
	copy(c, tr)
	return c
}

// Rows returns the samples in canonical x, y, vx, vy, t order.
func (tr Trajectory) Rows() [][]float64 {
	rows := make([][]float64, len(tr))
	for i, s := range tr {
		rows[i] = s.Row()
	}
	return rows
}

// FromRows builds and validates a trajectory from rows already in canonical
// x, y, vx, vy, t order.
func FromRows(rows [][]float64) (Trajectory, error) {
	tr := make(Trajectory, len(rows))
	for i, row := range rows {
		if len(row) != len(CanonicalColumns) {
			return nil, malformed(i, "expected %d columns, got %d", len(CanonicalColumns), len(row))
		}
		tr[i] = PhaseState{X: row[0], Y: row[1], VX: row[2], VY: row[3], T: row[4]}
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return tr, nil
}

// System exposes the gradient of a (possibly time dependent) potential.
// Acceleration returns dPhi/d(x, y) in km/s^2 at a position in kpc and a
// time in yr; a star's velocity is decremented by it. Callers guarantee R > 0.
type System interface {
	Acceleration(x, y, t float64) r2.Vec
}

// Hamiltonian is implemented by systems with a conserved quantity worth
// monitoring, here the Jacobi integral in the pattern frame.
type Hamiltonian interface {
	JacobiIntegral(s PhaseState) float64
}

// Integrator advances a phase state by one fixed step. t is the time tag of
// the step (yr) and dt the step length (yr). The returned state carries T = t.
type Integrator interface {
	Step(sys System, s PhaseState, t, dt float64) PhaseState
}

type Metric interface {
	Name() string
	Observe(s PhaseState)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, s PhaseState)
}

// TimeGrid selects how the per-step time tags are laid out.
type TimeGrid int

const (
	// GridUniform tags sample i with i*StepTime.
	GridUniform TimeGrid = iota
	// GridLinspace spreads N tags evenly over [0, Duration], the layout of
	// older dumps. The kick length stays StepTime.
	GridLinspace
)

func (g TimeGrid) String() string {
	switch g {
	case GridLinspace:
		return "linspace"
	default:
		return "uniform"
	}
}

type Config struct {
	StepTime      float64 // yr
	Duration      float64 // yr
	Grid          TimeGrid
	ValidateState bool
}

// DefaultStepTime is the reference step of 1e5 yr.
const DefaultStepTime = 100000.0

func DefaultConfig() Config {
	return Config{
		StepTime:      DefaultStepTime,
		Duration:      2e9,
		Grid:          GridUniform,
		ValidateState: true,
	}
}

// Steps returns N = round(Duration / StepTime).
func (c Config) Steps() int {
	return int(math.RoundToEven(c.Duration / c.StepTime))
}

// TimeGrid returns the N time tags the simulator steps through.
func (c Config) TimeGrid() []float64 {
	n := c.Steps()
	if n < 1 {
		return nil
	}
	times := make([]float64, n)
	switch c.Grid {
	case GridLinspace:
		if n == 1 {
			return times
		}
		spacing := c.Duration / float64(n-1)
		for i := range times {
			times[i] = float64(i) * spacing
		}
		times[n-1] = c.Duration
	default:
		for i := range times {
			times[i] = float64(i) * c.StepTime
		}
	}
	return times
}

type Result struct {
	Trajectory Trajectory
	Metrics    map[string]float64
	StepsTaken int
}
