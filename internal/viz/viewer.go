package viz

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/frame"
	"github.com/san-kum/corotrap/internal/physics"
)

type panel int

const (
	panelPortrait panel = iota
	panelLambda
	panelRandomEnergy
	panelRadius
	panelPoincare
	numPanels
)

var panelNames = [numPanels]string{"portrait", "lambda", "E_ran", "radius", "poincare"}

// Viewer is a full-screen browser over one run. f toggles the portrait
// frame, tab cycles panels, b switches braille tracing.
type Viewer struct {
	name       string
	portraits  [2]*analysis.Portrait // indexed by Frame
	series     *analysis.Series
	section    []r2.Vec
	class      analysis.TrappingClass
	classified bool

	frame         Frame
	panel         panel
	braille       bool
	width, height int
}

// NewViewer prepares both portraits and the Poincaré section of a run.
// series may be nil for runs without diagnostics.
func NewViewer(name string, pot *physics.Potential, traj dynamo.Trajectory, rot frame.Trajectory, series *analysis.Series) (Viewer, error) {
	v := Viewer{
		name:    name,
		series:  series,
		section: analysis.PoincareSection(rot),
		frame:   Rotating,
		width:   80,
		height:  24,
	}
	for _, fr := range []Frame{Inertial, Rotating} {
		p, err := NewPortrait(pot, traj, rot, fr)
		if err != nil {
			return Viewer{}, err
		}
		v.portraits[fr] = p
	}
	if series != nil {
		if class, err := series.Class(); err == nil {
			v.class, v.classified = class, true
		}
	}
	return v, nil
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "f":
			if v.frame == Rotating {
				v.frame = Inertial
			} else {
				v.frame = Rotating
			}
		case "tab", "right", "l":
			v.panel = (v.panel + 1) % numPanels
		case "shift+tab", "left", "h":
			v.panel = (v.panel + numPanels - 1) % numPanels
		case "b":
			v.braille = !v.braille
		case "1", "2", "3", "4", "5":
			v.panel = panel(msg.String()[0] - '1')
		}
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	}
	return v, nil
}

func (v Viewer) View() string {
	var b strings.Builder

	header := v.name
	if v.classified {
		header += "  " + ClassStyle(v.class).Render(v.class.String())
	}
	b.WriteString(HeaderStyle.Render(header) + "\n")

	var tabs []string
	for i, name := range panelNames {
		if panel(i) == v.panel {
			tabs = append(tabs, MetricValue.Render(name))
		} else {
			tabs = append(tabs, Subtle.Render(name))
		}
	}
	b.WriteString(strings.Join(tabs, Subtle.Render(" │ ")))
	b.WriteString(Subtle.Render(fmt.Sprintf("   frame: %s", v.frame)) + "\n\n")

	b.WriteString(v.body())
	b.WriteString("\n")

	keys := []struct{ key, desc string }{
		{"tab", "panel"}, {"f", "frame"}, {"b", "braille"}, {"q", "quit"},
	}
	for _, k := range keys {
		b.WriteString(MetricValue.Render(k.key) + Subtle.Render(" "+k.desc+"  "))
	}
	b.WriteString("\n")
	return b.String()
}

func (v Viewer) body() string {
	w := max(v.width-2, 20)
	h := max(v.height-8, 8)
	sz := PlotSize{Width: max(w-12, 10), Height: h - 2}

	var (
		out string
		err error
	)
	switch v.panel {
	case panelPortrait:
		return RenderPortrait(v.portraits[v.frame], w, h, v.braille)
	case panelPoincare:
		return PoincareSectionView(v.section, w, h)
	case panelLambda:
		out, err = v.plot(LambdaPlot, sz)
	case panelRandomEnergy:
		out, err = v.plot(RandomEnergyPlot, sz)
	case panelRadius:
		out, err = v.plot(RadiusPlot, sz)
	}
	if errors.Is(err, ErrNothingToPlot) {
		return Subtle.Render("no finite samples for this panel")
	}
	if err != nil {
		return Subtle.Render(err.Error())
	}
	return out
}

func (v Viewer) plot(fn func(*analysis.Series, PlotSize) (string, error), sz PlotSize) (string, error) {
	if v.series == nil {
		return "", ErrNothingToPlot
	}
	return fn(v.series, sz)
}

// PoincareSectionView frames the (x_R, vx_R) scatter with its axis labels.
func PoincareSectionView(pts []r2.Vec, w, h int) string {
	return Subtle.Render(fmt.Sprintf("x_R [kpc] vs vx_R [km/s] at y_R = 0 upward, %d crossings", len(pts))) +
		"\n" + analysis.PoincareToASCII(pts, w, h-1)
}

// RunViewer takes over the terminal until the user quits.
func RunViewer(v Viewer) error {
	_, err := tea.NewProgram(v, tea.WithAltScreen()).Run()
	return err
}
