package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/integrators"
	"github.com/san-kum/corotrap/internal/metrics"
	"github.com/san-kum/corotrap/internal/physics"
)

var ErrUnknownIntegrator = errors.New("experiment: unknown integrator")

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metrics for one run in pot: Jacobi integral
// conservation, L_z drift and the time spent between the Lindblad radii.
func (r *Registry) DefaultMetrics(pot *physics.Potential) []dynamo.Metric {
	res := pot.Resonances()
	return []dynamo.Metric{
		metrics.NewJacobiDrift(pot),
		metrics.NewMeanJacobi(pot),
		metrics.NewAngularMomentumDrift(),
		metrics.NewContainment(res.InnerLindblad, res.OuterLindblad),
	}
}
