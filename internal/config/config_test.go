package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/san-kum/corotrap/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "leapfrog" {
		t.Errorf("expected integrator leapfrog, got %s", cfg.Integrator)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	sim := cfg.SimConfig()
	if sim.Steps() != 20000 {
		t.Errorf("expected 20000 steps, got %d", sim.Steps())
	}
	if sim.Grid != dynamo.GridUniform {
		t.Errorf("expected uniform grid, got %s", sim.Grid)
	}

	p := cfg.GalaxyParams()
	if p.Arms != 4 || p.PitchDeg != 20 || p.Corotation != 8 || p.Epsilon != 0.3 {
		t.Errorf("unexpected galaxy params %+v", p)
	}
	if p.Disk.Vc != 220 {
		t.Errorf("expected vc 220, got %g", p.Disk.Vc)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.StepTime = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"duration below one step", func(c *Config) { c.Duration = 1e-6 }},
		{"unknown grid", func(c *Config) { c.Grid = "chebyshev" }},
		{"origin", func(c *Config) { c.InitState = InitStateConfig{VX: 10} }},
		{"no arms", func(c *Config) { c.Galaxy.Arms = 0 }},
		{"zero corotation", func(c *Config) { c.Galaxy.Corotation = 0 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", tt.name, err)
		}
	}
}

func TestLinspaceGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid = "linspace"
	if got := cfg.SimConfig().Grid; got != dynamo.GridLinspace {
		t.Errorf("expected linspace grid, got %s", got)
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Galaxy.Epsilon = 0.15
	cfg.InitState.X = 9.5
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadTOMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	data := `
integrator = "rk4"
duration = 0.5

[galaxy]
arms = 2
epsilon = 0.1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Integrator != "rk4" || cfg.Duration != 0.5 {
		t.Errorf("top-level fields not decoded: %+v", cfg)
	}
	if cfg.Galaxy.Arms != 2 || cfg.Galaxy.Epsilon != 0.1 {
		t.Errorf("galaxy not decoded: %+v", cfg.Galaxy)
	}
	if cfg.Galaxy.Corotation != DefaultCorotation || cfg.StepTime != dynamo.DefaultStepTime {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("step_time: -5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSetGet(t *testing.T) {
	cfg := DefaultConfig()
	for i, name := range Params {
		v := float64(i + 1)
		if err := cfg.Set(name, v); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
		got, err := cfg.Get(name)
		if err != nil || got != v {
			t.Errorf("Get(%s) = %g, %v; expected %g", name, got, err, v)
		}
	}

	if err := cfg.Set("m", 2.5); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected fractional arm count to fail, got %v", err)
	}
	if err := cfg.Set("omega", 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected unknown parameter to fail, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("corotation")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.X != 8 || cfg.InitState.VY != 220 {
		t.Errorf("unexpected corotation state %+v", cfg.InitState)
	}

	cfg.InitState.X = 99
	if GetPreset("corotation").InitState.X != 8 {
		t.Error("GetPreset should return a copy")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	want := []string{"corotation", "inner", "outer", "reference"}
	if len(names) != len(want) {
		t.Fatalf("expected presets %v, got %v", want, names)
	}
	for i, name := range names {
		if name != want[i] {
			t.Errorf("expected preset %s, got %s", want[i], name)
		}
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
