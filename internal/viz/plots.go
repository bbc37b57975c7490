package viz

import (
	"errors"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/corotrap/internal/analysis"
)

// ErrNothingToPlot is returned when a series has no finite samples.
var ErrNothingToPlot = errors.New("viz: nothing to plot")

// PlotSize is the size of each property panel in terminal cells.
type PlotSize struct {
	Width, Height int
}

var DefaultPlotSize = PlotSize{Width: 80, Height: 12}

func finite(values []float64) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func (sz PlotSize) options(caption string) []asciigraph.Option {
	return []asciigraph.Option{
		asciigraph.Width(sz.Width),
		asciigraph.Height(sz.Height),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	}
}

// LambdaPlot draws Lambda(t) between the capture boundaries at -1 and +1.
func LambdaPlot(s *analysis.Series, sz PlotSize) (string, error) {
	if !finite(s.Lambda) {
		return "", ErrNothingToPlot
	}
	n := len(s.Lambda)
	opts := append(sz.options("lambda (trapped inside ±1)"),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Gray, asciigraph.Gray))
	return asciigraph.PlotMany([][]float64{s.Lambda, constant(n, 1), constant(n, -1)}, opts...), nil
}

// RandomEnergyPlot draws E_ran(t) / E_ran(0).
func RandomEnergyPlot(s *analysis.Series, sz PlotSize) (string, error) {
	norm := s.NormalizedRandomEnergy()
	if !finite(norm) {
		return "", ErrNothingToPlot
	}
	opts := append(sz.options("E_ran / E_ran(0)"), asciigraph.SeriesColors(asciigraph.Yellow))
	return asciigraph.Plot(norm, opts...), nil
}

// RadiusPlot draws R - CR and R_g - CR in kpc.
func RadiusPlot(s *analysis.Series, sz PlotSize) (string, error) {
	r, rg := s.Offsets()
	if !finite(r) || !finite(rg) {
		return "", ErrNothingToPlot
	}
	opts := append(sz.options("R - CR, R_g - CR [kpc]"),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.SeriesLegends("R", "R_g"))
	return asciigraph.PlotMany([][]float64{r, rg}, opts...), nil
}

// PropertyPlots stacks every plot that has finite data, leaving a one-line
// note in place of each panel it skips. It fails only when none has data.
func PropertyPlots(s *analysis.Series, sz PlotSize) (string, error) {
	panels := []struct {
		name string
		plot func(*analysis.Series, PlotSize) (string, error)
	}{
		{"lambda", LambdaPlot},
		{"E_ran / E_ran(0)", RandomEnergyPlot},
		{"R - CR", RadiusPlot},
	}
	var out []string
	drawn := 0
	for _, p := range panels {
		chart, err := p.plot(s, sz)
		if errors.Is(err, ErrNothingToPlot) {
			out = append(out, Subtle.Render(p.name+": no finite samples, panel skipped"))
			continue
		}
		if err != nil {
			return "", err
		}
		out = append(out, chart)
		drawn++
	}
	if drawn == 0 {
		return "", ErrNothingToPlot
	}
	return strings.Join(out, "\n\n"), nil
}
