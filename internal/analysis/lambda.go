package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/physics"
	"github.com/san-kum/corotrap/internal/units"
)

var (
	// ErrNonCircularizable indicates a sample whose guiding-centre radius is
	// not positive (retrograde or purely radial motion).
	ErrNonCircularizable = errors.New("analysis: guiding-centre radius not positive")

	// ErrEmptySeries indicates a Lambda series with no samples.
	ErrEmptySeries = errors.New("analysis: empty series")

	// ErrUndefinedLambda indicates a non-finite Lambda value, as produced by
	// a potential without a spiral (A(CR) = 0).
	ErrUndefinedLambda = errors.New("analysis: trapping parameter undefined")
)

// Model is the part of the galactic potential the diagnostics read.
// *physics.Potential implements it.
type Model interface {
	Params() physics.Params
	Value(r, phi, t float64) float64
	Hcr() float64
	AmplitudeAtCorotation() float64
}

// Series holds the per-sample diagnostics of one trajectory, column by
// column. All energies are in (km/s)^2, radii in kpc, L_z in kpc km/s.
type Series struct {
	T      []float64
	Lambda []float64
	Ej     []float64
	PhiEff []float64
	Lz     []float64
	ETot   []float64
	ERan   []float64
	Rg     []float64
	R      []float64

	LambdaC float64 // (E_j[0] - Hcr) / A(CR)
	ACR     float64
	Hcr     float64
	CR      float64
}

func newSeries(n int) *Series {
	return &Series{
		T:      make([]float64, n),
		Lambda: make([]float64, n),
		Ej:     make([]float64, n),
		PhiEff: make([]float64, n),
		Lz:     make([]float64, n),
		ETot:   make([]float64, n),
		ERan:   make([]float64, n),
		Rg:     make([]float64, n),
		R:      make([]float64, n),
	}
}

func (s *Series) Len() int { return len(s.T) }

// Compute evaluates the diagnostics of traj in the potential m. The
// trajectory is validated first. Without a spiral (A(CR) = 0) every Lambda
// is NaN and Class reports ErrUndefinedLambda.
func Compute(traj dynamo.Trajectory, m Model) (*Series, error) {
	if err := traj.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	p := m.Params()
	vc := p.Disk.Vc
	cr := p.Corotation
	omegaK := vc / cr

	out := newSeries(len(traj))
	out.ACR = m.AmplitudeAtCorotation()
	out.Hcr = m.Hcr()
	out.CR = cr

	for i, s := range traj {
		r, phi, _, vphi := s.Polar()
		rg := r * vphi / vc
		if !(rg > 0) {
			return nil, fmt.Errorf("%w: sample %d at t=%g yr has R_g=%g kpc", ErrNonCircularizable, i, s.T, rg)
		}

		pot := m.Value(r, phi, s.T)
		potG := m.Value(rg, phi, s.T)

		eTot := pot + 0.5*(s.VX*s.VX+s.VY*s.VY)
		eTotG := potG + 0.5*vc*vc
		lz := r * vphi

		out.T[i] = s.T
		out.R[i] = r
		out.Rg[i] = rg
		out.Lz[i] = lz
		out.ETot[i] = eTot
		out.ERan[i] = eTot - eTotG
		out.Ej[i] = eTot - omegaK*lz
		out.PhiEff[i] = pot - 0.5*(omegaK*r)*(omegaK*r)
	}

	if out.ACR == 0 {
		out.LambdaC = math.NaN()
		for i := range out.Lambda {
			out.Lambda[i] = math.NaN()
		}
		return out, nil
	}

	out.LambdaC = (out.Ej[0] - out.Hcr) / out.ACR
	for i := range out.Lambda {
		out.Lambda[i] = out.LambdaC - (out.Rg[i]/cr)*(out.ERan[i]/out.ACR)
	}
	return out, nil
}

// Class classifies the Lambda series.
func (s *Series) Class() (TrappingClass, error) {
	return Classify(s.Lambda)
}

// SampledLz returns L_z at the start, quarter, half, three quarters and end
// of the series.
func (s *Series) SampledLz() [5]float64 {
	var out [5]float64
	n := len(s.Lz)
	if n == 0 {
		return out
	}
	idx := [5]int{0, n / 4, n / 2, 3 * n / 4, n - 1}
	for i, j := range idx {
		out[i] = s.Lz[j]
	}
	return out
}

// NormalizedRandomEnergy returns E_ran / E_ran[0]. A star launched exactly
// on its guiding-centre orbit has E_ran[0] == 0, and the result is then
// ±Inf or NaN; callers check with floats.HasNaN or math.IsInf.
func (s *Series) NormalizedRandomEnergy() []float64 {
	out := make([]float64, len(s.ERan))
	if len(out) == 0 {
		return out
	}
	return floats.ScaleTo(out, 1/s.ERan[0], s.ERan)
}

// Offsets returns R - CR and R_g - CR.
func (s *Series) Offsets() (r, rg []float64) {
	r = append([]float64(nil), s.R...)
	rg = append([]float64(nil), s.Rg...)
	floats.AddConst(-s.CR, r)
	floats.AddConst(-s.CR, rg)
	return r, rg
}

// GuidingCentreTrack returns the guiding-centre position of every sample in
// the frame corotating with the pattern: radius R_g at the star's pattern
// azimuth.
func GuidingCentreTrack(traj dynamo.Trajectory, m Model) ([]r2.Vec, error) {
	if err := traj.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	p := m.Params()
	omega := units.PatternSpeed(p.Disk.Vc, p.Corotation)

	track := make([]r2.Vec, len(traj))
	for i, s := range traj {
		r, phi, _, vphi := s.Polar()
		rg := r * vphi / p.Disk.Vc
		sin, cos := math.Sincos(phi - omega*s.T)
		track[i] = r2.Vec{X: rg * cos, Y: rg * sin}
	}
	return track, nil
}
