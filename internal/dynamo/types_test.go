package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestPhaseState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state PhaseState
		valid bool
	}{
		{"zeros", PhaseState{}, true},
		{"normal", PhaseState{X: 8, Y: 1, VX: -10, VY: 220, T: 1e5}, true},
		{"with NaN", PhaseState{X: math.NaN()}, false},
		{"with +Inf", PhaseState{VY: math.Inf(1)}, false},
		{"with -Inf time", PhaseState{T: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestPhaseState_Polar(t *testing.T) {
	s := PhaseState{X: 3, Y: 4, VX: -6, VY: 8}
	if r := s.Radius(); math.Abs(r-5) > 1e-12 {
		t.Errorf("Radius() = %v, want 5", r)
	}
	if v := s.Speed(); math.Abs(v-10) > 1e-12 {
		t.Errorf("Speed() = %v, want 10", v)
	}
	if phi := s.Phi(); math.Abs(phi-math.Atan2(4, 3)) > 1e-12 {
		t.Errorf("Phi() = %v", phi)
	}
}

func uniformTrajectory(n int, step float64) Trajectory {
	tr := make(Trajectory, n)
	for i := range tr {
		tr[i] = PhaseState{X: 8, Y: float64(i) * 0.01, VX: 0, VY: 220, T: float64(i) * step}
	}
	return tr
}

func TestTrajectory_Validate(t *testing.T) {
	good := uniformTrajectory(5, 1e5)

	nonMonotonic := good.Clone()
	nonMonotonic[3].T = nonMonotonic[2].T

	uneven := good.Clone()
	uneven[4].T += 5e4

	atOrigin := good.Clone()
	atOrigin[2].X, atOrigin[2].Y = 0, 0

	withNaN := good.Clone()
	withNaN[1].VX = math.NaN()

	tests := []struct {
		name string
		tr   Trajectory
		ok   bool
	}{
		{"valid", good, true},
		{"single sample", good[:1], true},
		{"empty", Trajectory{}, false},
		{"non monotonic", nonMonotonic, false},
		{"uneven spacing", uneven, false},
		{"origin", atOrigin, false},
		{"nan", withNaN, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tr.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrMalformedTrajectory) {
				t.Fatalf("expected ErrMalformedTrajectory, got %v", err)
			}
		})
	}
}

func TestFromRows(t *testing.T) {
	tr := uniformTrajectory(4, 2.5)
	back, err := FromRows(tr.Rows())
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	for i := range tr {
		if back[i] != tr[i] {
			t.Errorf("sample %d: got %+v, want %+v", i, back[i], tr[i])
		}
	}

	_, err = FromRows([][]float64{{1, 2, 3, 4}})
	if !errors.Is(err, ErrMalformedTrajectory) {
		t.Errorf("expected column count error, got %v", err)
	}
}

func TestConfig_TimeGrid(t *testing.T) {
	cfg := Config{StepTime: 1e5, Duration: 1e6}
	if n := cfg.Steps(); n != 10 {
		t.Fatalf("Steps() = %d, want 10", n)
	}

	grid := cfg.TimeGrid()
	for i, tm := range grid {
		if tm != float64(i)*1e5 {
			t.Errorf("uniform grid[%d] = %v", i, tm)
		}
	}

	cfg.Grid = GridLinspace
	grid = cfg.TimeGrid()
	if len(grid) != 10 {
		t.Fatalf("linspace grid length %d", len(grid))
	}
	if grid[0] != 0 || grid[9] != 1e6 {
		t.Errorf("linspace endpoints = %v, %v", grid[0], grid[9])
	}
}

func TestConfig_StepsRounding(t *testing.T) {
	tests := []struct {
		duration, step float64
		want           int
	}{
		{2e9, 1e5, 20000},
		{1.04e6, 1e5, 10},
		{1.06e6, 1e5, 11},
		{4e4, 1e5, 0},
	}
	for _, tt := range tests {
		cfg := Config{StepTime: tt.step, Duration: tt.duration}
		if got := cfg.Steps(); got != tt.want {
			t.Errorf("Steps(%g/%g) = %d, want %d", tt.duration, tt.step, got, tt.want)
		}
	}
}
