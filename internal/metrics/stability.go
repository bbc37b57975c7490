package metrics

import (
	"math"

	"github.com/san-kum/corotrap/internal/dynamo"
)

// Containment is the fraction of samples whose radius lies in the annulus
// [inner, outer] kpc.
type Containment struct {
	name         string
	inner, outer float64
	violations   int
	samples      int
}

func NewContainment(inner, outer float64) *Containment {
	return &Containment{
		name:  "containment",
		inner: inner,
		outer: outer,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s dynamo.PhaseState) {
	c.samples++
	if r := s.Radius(); r < c.inner || r > c.outer {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}

// AngularMomentumDrift is the mean relative change of L_z from its first
// observed value. It is zero for an axisymmetric potential and measures the
// torque exerted by the spiral otherwise.
type AngularMomentumDrift struct {
	name    string
	initial float64
	sum     float64
	samples int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{
		name: "lz_drift",
	}
}

func (a *AngularMomentumDrift) Name() string {
	return a.name
}

func (a *AngularMomentumDrift) Observe(s dynamo.PhaseState) {
	lz := s.AngularMomentum()
	if a.samples == 0 {
		a.initial = lz
	}
	if a.initial != 0 {
		a.sum += math.Abs(lz-a.initial) / math.Abs(a.initial)
	}
	a.samples++
}

func (a *AngularMomentumDrift) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.sum = 0
	a.samples = 0
}
