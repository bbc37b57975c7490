package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/units"
)

// Potential is an axisymmetric logarithmic disk plus a rigidly rotating,
// tightly wound m-armed spiral. All derived constants are computed once in
// New; the value is read-only afterwards and safe for concurrent use.
type Potential struct {
	params Params

	m      float64
	alpha  float64
	vc2    float64
	sigma0 float64 // central surface density [Msun/pc^2]
	omega  float64 // pattern speed [rad/yr]
	omegaK float64 // pattern speed [km/s per kpc]
	hcr    float64
	aCR    float64
}

func New(p Params) (*Potential, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pot := &Potential{
		params: p,
		m:      float64(p.Arms),
		alpha:  p.Alpha(),
		vc2:    p.Disk.Vc * p.Disk.Vc,
		sigma0: p.Disk.SigmaSun * math.Exp(p.Disk.RSun/p.Disk.Rd),
		omega:  units.PatternSpeed(p.Disk.Vc, p.Corotation),
		omegaK: p.Disk.Vc / p.Corotation,
	}
	pot.hcr = pot.findHcr()
	pot.aCR = pot.SpiralAmplitude(p.Corotation)
	return pot, nil
}

func (p *Potential) Params() Params { return p.params }
func (p *Potential) Alpha() float64 { return p.alpha }

// PatternSpeed returns OmegaCR in rad/yr.
func (p *Potential) PatternSpeed() float64 { return p.omega }

// Hcr is the Jacobi integral of a star on the corotation circle with no
// spiral perturbation, in (km/s)^2.
func (p *Potential) Hcr() float64 { return p.hcr }

// AmplitudeAtCorotation returns A(CR) in (km/s)^2.
func (p *Potential) AmplitudeAtCorotation() float64 { return p.aCR }

func (p *Potential) findHcr() float64 {
	cr := p.params.Corotation
	vc := p.params.Disk.Vc
	eTot := p.vc2*math.Log(cr) + 0.5*p.vc2
	lz := cr * vc
	return eTot - p.omegaK*lz
}

// SurfaceDensity returns Sigma(R) in Msun/pc^2 for R in kpc.
func (p *Potential) SurfaceDensity(r float64) float64 {
	return p.sigma0 * math.Exp(-r/p.params.Disk.Rd)
}

// SpiralAmplitude returns A(R) = 2 pi G Sigma(R) epsilon R / alpha in (km/s)^2.
func (p *Potential) SpiralAmplitude(r float64) float64 {
	return 2 * math.Pi * units.G * p.SurfaceDensity(r) * p.params.Epsilon * units.KpcToPc(r) / p.alpha
}

// phase is the spiral phase m OmegaCR t - m phi - alpha ln(R/CR).
func (p *Potential) phase(r, phi, t float64) float64 {
	return p.m*t*p.omega - p.m*phi - p.alpha*math.Log(r/p.params.Corotation)
}

// Acceleration returns the gradient of the potential in km/s^2 at (x, y) kpc
// and time t yr. Velocities are decremented by it. Undefined at R = 0.
func (p *Potential) Acceleration(x, y, t float64) r2.Vec {
	r2sum := x*x + y*y
	r := math.Sqrt(r2sum)
	a := p.SpiralAmplitude(r)

	sin, cos := math.Sincos(p.phase(r, math.Atan2(y, x), t))
	radial := p.alpha*sin + (1-r/p.params.Disk.Rd)*cos
	front := a / r2sum

	gx := p.vc2*x/r2sum + front*(x*radial-p.m*y*sin)
	gy := p.vc2*y/r2sum + front*(y*radial+p.m*x*sin)

	return r2.Vec{X: units.GradientToAccel(gx), Y: units.GradientToAccel(gy)}
}

// DiskPotential returns vc^2 ln(R / 1 kpc).
func (p *Potential) DiskPotential(r float64) float64 {
	return p.vc2 * math.Log(r)
}

// SpiralPotential returns A(R) cos(phase) at radius r, azimuth phi, time t.
func (p *Potential) SpiralPotential(r, phi, t float64) float64 {
	return p.SpiralAmplitude(r) * math.Cos(p.phase(r, phi, t))
}

// Value returns the total potential in (km/s)^2.
func (p *Potential) Value(r, phi, t float64) float64 {
	return p.DiskPotential(r) + p.SpiralPotential(r, phi, t)
}

// JacobiIntegral returns E - OmegaCR L_z in (km/s)^2.
func (p *Potential) JacobiIntegral(s dynamo.PhaseState) float64 {
	r, phi, _, vphi := s.Polar()
	eTot := p.Value(r, phi, s.T) + 0.5*(s.VX*s.VX+s.VY*s.VY)
	return eTot - p.omegaK*(r*vphi)
}

// EffectivePotential is the rotating-frame contour function used to draw
// the corotation capture region, at radius r and pattern-frame azimuth phiR.
func (p *Potential) EffectivePotential(r, phiR float64) float64 {
	cr := p.params.Corotation
	return 0.5*p.omegaK*p.omegaK*cr*cr - p.omegaK*p.omegaK*cr*r + p.Value(r, phiR, 0)
}

// CaptureBand returns the effective potential range Hcr -/+ A(CR) that
// bounds the capture region.
func (p *Potential) CaptureBand() (lo, hi float64) {
	return p.hcr - p.aCR, p.hcr + p.aCR
}

// Resonances returns the Lindblad (m) and ultraharmonic (2m) radii.
func (p *Potential) Resonances() Resonances {
	vc := p.params.Disk.Vc
	res := Resonances{Corotation: p.params.Corotation}
	res.InnerLindblad, res.OuterLindblad = resonancePair(p.m, vc, p.omegaK)
	res.InnerUltraharmonic, res.OuterUltraharmonic = resonancePair(2*p.m, vc, p.omegaK)
	return res
}

// ArmTrace returns n points along each spiral arm, in the pattern frame.
func (p *Potential) ArmTrace(n int) [][]r2.Vec {
	arms := make([][]r2.Vec, p.params.Arms)
	if n < 2 {
		return arms
	}
	lo, hi := math.Pi/24, math.Pi/2+math.Pi/16
	for i := range arms {
		offset := 2 * math.Pi * float64(i) / p.m
		arms[i] = make([]r2.Vec, n)
		for j := 0; j < n; j++ {
			t := lo + (hi-lo)*float64(j)/float64(n-1)
			r := p.params.Corotation * math.Exp((-p.m*t+math.Pi)/p.alpha)
			arms[i][j] = r2.Vec{X: r * math.Cos(t+offset), Y: r * math.Sin(t+offset)}
		}
	}
	return arms
}
