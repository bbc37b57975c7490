package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/dynamo"
)

// radialEnergy is a toy Hamiltonian whose Jacobi integral is the speed squared.
type radialEnergy struct{}

func (radialEnergy) Acceleration(x, y, t float64) r2.Vec { return r2.Vec{} }
func (radialEnergy) JacobiIntegral(s dynamo.PhaseState) float64 {
	return s.VX*s.VX + s.VY*s.VY
}

type noHamiltonian struct{}

func (noHamiltonian) Acceleration(x, y, t float64) r2.Vec { return r2.Vec{} }

func TestMeanJacobi(t *testing.T) {
	m := NewMeanJacobi(radialEnergy{})

	m.Observe(dynamo.PhaseState{X: 1, VX: 2})
	m.Observe(dynamo.PhaseState{X: 1, VY: 4})

	if math.Abs(m.Value()-10) > 1e-12 {
		t.Errorf("expected mean 10, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestJacobiDrift(t *testing.T) {
	m := NewJacobiDrift(radialEnergy{})

	m.Observe(dynamo.PhaseState{X: 1, VX: 10})
	m.Observe(dynamo.PhaseState{X: 1, VX: 11})
	m.Observe(dynamo.PhaseState{X: 1, VX: 10})

	if math.Abs(m.Value()-0.21) > 1e-12 {
		t.Errorf("expected drift 0.21, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestJacobiDriftIgnoresSystemsWithoutIntegral(t *testing.T) {
	m := NewJacobiDrift(noHamiltonian{})
	m.Observe(dynamo.PhaseState{X: 1, VX: 10})
	m.Observe(dynamo.PhaseState{X: 1, VX: 20})
	if m.Value() != 0 {
		t.Errorf("expected zero drift, got %f", m.Value())
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment(5, 10)
	if m.Value() != 1 {
		t.Errorf("expected 1 before any sample, got %f", m.Value())
	}

	for _, x := range []float64{4, 6, 8, 11} {
		m.Observe(dynamo.PhaseState{X: x})
	}
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestAngularMomentumDrift(t *testing.T) {
	m := NewAngularMomentumDrift()

	m.Observe(dynamo.PhaseState{X: 8, VY: 200})
	m.Observe(dynamo.PhaseState{X: 8, VY: 220})

	if math.Abs(m.Value()-0.05) > 1e-12 {
		t.Errorf("expected 0.05, got %f", m.Value())
	}
}
