package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/corotrap/internal/analysis"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ClassStyle colours a trapping class: green when trapped throughout, red
// when never trapped, amber for the mixed histories.
func ClassStyle(c analysis.TrappingClass) lipgloss.Style {
	switch c {
	case analysis.AlwaysTrapped:
		return SparkHigh.Bold(true)
	case analysis.AlwaysFree:
		return SparkLow.Bold(true)
	default:
		return SparkMid.Bold(true)
	}
}

// SparklineChart renders a mini sparkline from values. Non-finite values
// are drawn as gaps.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 || math.IsInf(rng, 0) {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		v := values[i*step]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			result.WriteRune(' ')
			continue
		}
		norm := (v - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

func metricLine(label, value string) string {
	return MetricLabel.Render(fmt.Sprintf("%-14s", label)) + MetricValue.Render(value)
}

// RenderSummary draws the per-run summary panel. lambda may be nil.
func RenderSummary(name string, s analysis.Summary, lambda []float64, metrics map[string]float64) string {
	lines := []string{
		HeaderStyle.Render(name),
		metricLine("class", ClassStyle(s.Class).Render(fmt.Sprintf("%s (%d)", s.Class, int(s.Class)))),
		metricLine("lambda_c", fmt.Sprintf("%.4f", s.LambdaC)),
		metricLine("lambda", fmt.Sprintf("%.4f .. %.4f, mean %.4f", s.LambdaMin, s.LambdaMax, s.LambdaMean)),
		metricLine("trapped", fmt.Sprintf("%.1f%%", 100*s.TrappedFraction)),
		metricLine("radius", fmt.Sprintf("%.3f .. %.3f kpc", s.RMin, s.RMax)),
		metricLine("mean R_g", fmt.Sprintf("%.3f kpc", s.RgMean)),
		metricLine("E_j spread", fmt.Sprintf("%.3e", s.EjSpread)),
		metricLine("L_z samples", fmt.Sprintf("%.1f %.1f %.1f %.1f %.1f", s.Lz[0], s.Lz[1], s.Lz[2], s.Lz[3], s.Lz[4])),
	}

	if len(metrics) > 0 {
		names := make([]string, 0, len(metrics))
		for k := range metrics {
			names = append(names, k)
		}
		sort.Strings(names)
		lines = append(lines, Separator(40))
		for _, k := range names {
			lines = append(lines, metricLine(k, fmt.Sprintf("%.6g", metrics[k])))
		}
	}

	if len(lambda) > 0 {
		lines = append(lines, Separator(40), MetricLabel.Render("lambda ")+SparklineChart(lambda, 40))
	}

	return Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
