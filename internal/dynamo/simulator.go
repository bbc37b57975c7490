package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates x0 over the configured time grid. Sample 0 is x0 tagged with
// the first grid time; sample i is one integrator step from sample i-1 at
// grid time i. The result holds exactly cfg.Steps() samples.
func (s *Simulator) Run(ctx context.Context, x0 PhaseState, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if !x0.IsValid() {
		return nil, fmt.Errorf("initial state: %w", ErrInvalidState)
	}
	if x0.AtOrigin() {
		return nil, fmt.Errorf("initial state: %w", ErrOriginSingularity)
	}

	times := cfg.TimeGrid()
	result := &Result{
		Trajectory: make(Trajectory, 0, len(times)),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0
	x.T = times[0]
	s.emit(result, 0, x)

	for i := 1; i < len(times); i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())
		default:
		}

		next := s.integrator.Step(s.sys, x, times[i], cfg.StepTime)

		if cfg.ValidateState {
			if !next.IsValid() {
				return result, &SimulationError{Step: i, Time: times[i], State: next, Wrapped: ErrInvalidState}
			}
			if next.AtOrigin() {
				return result, &SimulationError{Step: i, Time: times[i], State: next, Wrapped: ErrOriginSingularity}
			}
		}

		x = next
		result.StepsTaken++
		s.emit(result, i, x)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) emit(result *Result, step int, x PhaseState) {
	result.Trajectory = append(result.Trajectory, x)
	for _, m := range s.metrics {
		m.Observe(x)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, x)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.StepTime <= 0 {
		return fmt.Errorf("%w: step time must be positive, got %g", ErrInvalidConfig, cfg.StepTime)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, cfg.Duration)
	}
	if n := cfg.Steps(); n < 1 {
		return fmt.Errorf("%w: duration %g yr holds no step of %g yr", ErrInvalidConfig, cfg.Duration, cfg.StepTime)
	}
	return nil
}
