package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a phase state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrOriginSingularity indicates a position at R = 0, where the
	// logarithmic disk and spiral phase are undefined.
	ErrOriginSingularity = errors.New("dynamo: position at galactic centre (R = 0)")

	// ErrInvalidConfig indicates a non-positive step, duration or step count.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation config")

	// ErrMalformedTrajectory indicates a trajectory that is empty, unordered,
	// unevenly sampled or has the wrong column layout.
	ErrMalformedTrajectory = errors.New("dynamo: malformed trajectory")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   PhaseState
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g yr): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// malformed wraps ErrMalformedTrajectory with the offending sample index.
func malformed(idx int, format string, args ...any) error {
	return fmt.Errorf("%w: sample %d: %s", ErrMalformedTrajectory, idx, fmt.Sprintf(format, args...))
}
