package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/config"
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/frame"
	"github.com/san-kum/corotrap/internal/physics"
)

// Experiment is one configured orbit: potential, integrator and simulator.
type Experiment struct {
	cfg       *config.Config
	potential *physics.Potential
	simulator *dynamo.Simulator
}

// Outcome bundles everything derived from one run. Series and Summary are
// nil when the diagnostics are undefined; DiagErr then says why.
type Outcome struct {
	Config    *config.Config
	Potential *physics.Potential
	Result    *dynamo.Result
	Rotating  frame.Trajectory
	Series    *analysis.Series
	Summary   *analysis.Summary
	DiagErr   error
}

func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pot, err := physics.New(cfg.GalaxyParams())
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	sim := dynamo.New(pot, integ)
	for _, m := range reg.DefaultMetrics(pot) {
		sim.AddMetric(m)
	}

	return &Experiment{cfg: cfg, potential: pot, simulator: sim}, nil
}

func (e *Experiment) Potential() *physics.Potential { return e.potential }

// GetSimulator exposes the simulator so callers can attach observers.
func (e *Experiment) GetSimulator() *dynamo.Simulator {
	return e.simulator
}

// Run integrates the orbit and derives its diagnostics. Only simulation
// failures are returned as errors.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	result, err := e.simulator.Run(ctx, e.cfg.InitialState(), e.cfg.SimConfig())
	if err != nil {
		return nil, err
	}
	return Analyze(e.cfg, e.potential, result)
}

// Analyze derives the rotating-frame view and diagnostics of a finished
// run. It is also used for trajectories loaded from dumps.
func Analyze(cfg *config.Config, pot *physics.Potential, result *dynamo.Result) (*Outcome, error) {
	out := &Outcome{Config: cfg, Potential: pot, Result: result}

	rot, err := frame.ToRotating(result.Trajectory, pot.PatternSpeed())
	if err != nil {
		return nil, err
	}
	out.Rotating = rot

	series, err := analysis.Compute(result.Trajectory, pot)
	if err != nil {
		if errors.Is(err, analysis.ErrNonCircularizable) {
			out.DiagErr = err
			return out, nil
		}
		return nil, err
	}
	out.Series = series

	summary, err := series.Summary()
	if err != nil {
		out.DiagErr = err
		return out, nil
	}
	out.Summary = &summary
	return out, nil
}

// SampledLz returns L_z at the five batch-table sample points, taken from
// the trajectory so it is available even without diagnostics.
func (o *Outcome) SampledLz() [5]float64 {
	if o.Series != nil {
		return o.Series.SampledLz()
	}
	lz := make([]float64, len(o.Result.Trajectory))
	for i, s := range o.Result.Trajectory {
		lz[i] = s.AngularMomentum()
	}
	return (&analysis.Series{Lz: lz}).SampledLz()
}

// FromDump rebuilds an outcome from a stored trajectory and the
// configuration parsed from its name.
func FromDump(cfg *config.Config, traj dynamo.Trajectory) (*Outcome, error) {
	pot, err := physics.New(cfg.GalaxyParams())
	if err != nil {
		return nil, fmt.Errorf("experiment: %w", err)
	}
	return Analyze(cfg, pot, &dynamo.Result{Trajectory: traj, StepsTaken: len(traj) - 1})
}
