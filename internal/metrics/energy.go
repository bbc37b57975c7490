package metrics

import (
	"math"

	"github.com/san-kum/corotrap/internal/dynamo"
)

// MeanJacobi averages the Jacobi integral over the observed samples.
type MeanJacobi struct {
	name    string
	ham     dynamo.Hamiltonian
	samples int
	total   float64
}

func NewMeanJacobi(ham dynamo.Hamiltonian) *MeanJacobi {
	return &MeanJacobi{
		name: "mean_jacobi",
		ham:  ham,
	}
}

func (e *MeanJacobi) Name() string { return e.name }

func (e *MeanJacobi) Observe(s dynamo.PhaseState) {
	e.total += e.ham.JacobiIntegral(s)
	e.samples++
}

func (e *MeanJacobi) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *MeanJacobi) Reset() {
	e.total = 0
	e.samples = 0
}

// JacobiDrift tracks the largest relative departure of the Jacobi integral
// from its first observed value. The integral is conserved in a rigidly
// rotating potential, so this measures integration error.
type JacobiDrift struct {
	name     string
	sys      dynamo.System
	initial  float64
	maxDrift float64
	samples  int
}

func NewJacobiDrift(sys dynamo.System) *JacobiDrift {
	return &JacobiDrift{
		name: "jacobi_drift",
		sys:  sys,
	}
}

func (e *JacobiDrift) Name() string { return e.name }

func (e *JacobiDrift) Observe(s dynamo.PhaseState) {
	ham, ok := e.sys.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	ej := ham.JacobiIntegral(s)

	if e.samples == 0 {
		e.initial = ej
	}

	e.samples++

	if e.initial != 0 {
		drift := math.Abs(ej-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *JacobiDrift) Value() float64 {
	return e.maxDrift
}

func (e *JacobiDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
