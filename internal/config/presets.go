package config

import "sort"

// Presets are named starting configurations for the reference galaxy
// (m=4, 20 deg pitch, CR=8 kpc, eps=0.3).
var Presets = map[string]*Config{
	"reference":  DefaultConfig(),
	"corotation": withState(InitStateConfig{X: 8, Y: 0, VX: 0, VY: 220}),
	"outer":      withState(InitStateConfig{X: 11.5, Y: 0, VX: 15, VY: 205}),
	"inner":      withState(InitStateConfig{X: 0, Y: 5.5, VX: -232, VY: -10}),
}

func withState(s InitStateConfig) *Config {
	cfg := DefaultConfig()
	cfg.InitState = s
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
