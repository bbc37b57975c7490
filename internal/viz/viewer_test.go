package viz

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, v Viewer, msg tea.Msg) (Viewer, tea.Cmd) {
	t.Helper()
	m, cmd := v.Update(msg)
	next, ok := m.(Viewer)
	require.True(t, ok)
	return next, cmd
}

func newTestViewer(t *testing.T) Viewer {
	t.Helper()
	out := shortOutcome(t, 0.3)
	v, err := NewViewer("viewer_test", out.Potential, out.Result.Trajectory, out.Rotating, out.Series)
	require.NoError(t, err)
	return v
}

func TestViewerTogglesFrame(t *testing.T) {
	v := newTestViewer(t)
	assert.Equal(t, Rotating, v.frame)
	assert.Contains(t, v.View(), "frame: rotating")
	assert.Contains(t, v.View(), "viewer_test")

	v, _ = send(t, v, key("f"))
	assert.Equal(t, Inertial, v.frame)
	assert.Contains(t, v.View(), "frame: inertial")
	assert.NotContains(t, v.View(), "░")

	v, _ = send(t, v, key("f"))
	assert.Equal(t, Rotating, v.frame)
}

func TestViewerCyclesPanels(t *testing.T) {
	v := newTestViewer(t)

	v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, panelLambda, v.panel)
	assert.Contains(t, v.View(), "trapped inside")

	v, _ = send(t, v, key("5"))
	assert.Equal(t, panelPoincare, v.panel)
	assert.Contains(t, v.View(), "crossings")

	v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, panelPortrait, v.panel)

	v, _ = send(t, v, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, panelPoincare, v.panel)
}

func TestViewerResizeAndQuit(t *testing.T) {
	v := newTestViewer(t)

	v, cmd := send(t, v, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 120, v.width)
	assert.Equal(t, 40, v.height)

	v, _ = send(t, v, key("b"))
	assert.True(t, v.braille)

	_, cmd = send(t, v, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestViewerWithoutSeries(t *testing.T) {
	out := shortOutcome(t, 0.3)
	v, err := NewViewer("bare", out.Potential, out.Result.Trajectory, out.Rotating, nil)
	require.NoError(t, err)

	v, _ = send(t, v, key("2"))
	assert.Contains(t, v.View(), "no finite samples")
}
