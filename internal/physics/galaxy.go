package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/corotrap/internal/units"
)

// ErrInvalidParams indicates galaxy parameters that cannot define a potential.
var ErrInvalidParams = errors.New("physics: invalid galaxy parameters")

// Disk holds the fixed constants of the logarithmic disk model.
type Disk struct {
	Vc       float64 // circular velocity [km/s]
	RSun     float64 // solar galactocentric radius [kpc]
	SigmaSun float64 // surface density at RSun [Msun/pc^2]
	Rd       float64 // exponential scale length [kpc]
}

func DefaultDisk() Disk {
	return Disk{
		Vc:       220,
		RSun:     8,
		SigmaSun: 50,
		Rd:       2.5,
	}
}

// Params is the immutable configuration of the disk plus spiral potential.
type Params struct {
	Arms       int     // number of spiral arms m
	PitchDeg   float64 // pitch angle [deg]
	Corotation float64 // corotation radius CR [kpc]
	Epsilon    float64 // spiral strength
	Disk       Disk
}

// Alpha returns m / tan(pitch).
func (p Params) Alpha() float64 {
	return float64(p.Arms) / math.Tan(units.Deg2Rad(p.PitchDeg))
}

func (p Params) Validate() error {
	if p.Arms < 1 {
		return fmt.Errorf("%w: arms must be >= 1, got %d", ErrInvalidParams, p.Arms)
	}
	if !(p.Corotation > 0) || math.IsInf(p.Corotation, 0) {
		return fmt.Errorf("%w: corotation radius must be positive, got %g", ErrInvalidParams, p.Corotation)
	}
	tan := math.Tan(units.Deg2Rad(p.PitchDeg))
	if tan == 0 || math.IsNaN(tan) || math.IsInf(tan, 0) {
		return fmt.Errorf("%w: pitch angle %g deg has no finite non-zero tangent", ErrInvalidParams, p.PitchDeg)
	}
	if alpha := p.Alpha(); alpha == 0 || math.IsInf(alpha, 0) || math.IsNaN(alpha) {
		return fmt.Errorf("%w: pitch angle %g deg gives alpha=%g", ErrInvalidParams, p.PitchDeg, alpha)
	}
	if math.IsNaN(p.Epsilon) || math.IsInf(p.Epsilon, 0) {
		return fmt.Errorf("%w: epsilon must be finite", ErrInvalidParams)
	}
	if !(p.Disk.Vc > 0) {
		return fmt.Errorf("%w: circular velocity must be positive, got %g", ErrInvalidParams, p.Disk.Vc)
	}
	if !(p.Disk.Rd > 0) {
		return fmt.Errorf("%w: disk scale length must be positive, got %g", ErrInvalidParams, p.Disk.Rd)
	}
	if p.Disk.SigmaSun < 0 {
		return fmt.Errorf("%w: surface density must be non-negative, got %g", ErrInvalidParams, p.Disk.SigmaSun)
	}
	return nil
}

// Resonances holds the radii [kpc] of the Lindblad and ultraharmonic
// resonances around corotation. A non-positive inner radius means that
// resonance does not exist for the arm count (m = 1).
type Resonances struct {
	InnerLindblad      float64
	OuterLindblad      float64
	InnerUltraharmonic float64
	OuterUltraharmonic float64
	Corotation         float64
}

func resonancePair(m, vc, omega float64) (inner, outer float64) {
	inner = (m - math.Sqrt2) * vc / (m * omega)
	outer = (m + math.Sqrt2) * vc / (m * omega)
	return inner, outer
}
