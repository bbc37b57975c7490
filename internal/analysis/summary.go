package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses a series into the scalars reported per run.
type Summary struct {
	Class           TrappingClass
	LambdaC         float64
	LambdaMin       float64
	LambdaMax       float64
	LambdaMean      float64
	TrappedFraction float64
	EjSpread        float64 // (max - min) / |E_j[0]|
	RMin, RMax      float64
	RgMean          float64
	Lz              [5]float64
}

// Summary returns the scalar summary of s. It fails where Class does.
func (s *Series) Summary() (Summary, error) {
	class, err := s.Class()
	if err != nil {
		return Summary{}, err
	}

	trapped := 0
	for _, v := range s.Lambda {
		if Trapped(v) {
			trapped++
		}
	}

	sum := Summary{
		Class:           class,
		LambdaC:         s.LambdaC,
		LambdaMin:       floats.Min(s.Lambda),
		LambdaMax:       floats.Max(s.Lambda),
		LambdaMean:      stat.Mean(s.Lambda, nil),
		TrappedFraction: float64(trapped) / float64(len(s.Lambda)),
		RMin:            floats.Min(s.R),
		RMax:            floats.Max(s.R),
		RgMean:          stat.Mean(s.Rg, nil),
		Lz:              s.SampledLz(),
	}
	if ej0 := math.Abs(s.Ej[0]); ej0 > 0 {
		sum.EjSpread = (floats.Max(s.Ej) - floats.Min(s.Ej)) / ej0
	}
	return sum, nil
}
