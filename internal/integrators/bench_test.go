package integrators

import (
	"testing"
)

func BenchmarkLeapfrog(b *testing.B) {
	integrator := NewLeapfrog()
	sys := reference(b)
	x := referenceStart

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, float64(i)*stepYears, stepYears)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	sys := reference(b)
	x := referenceStart

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, float64(i)*stepYears, stepYears)
	}
}
