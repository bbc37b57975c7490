package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Batch describes many independent runs. Each entry of Runs is decoded
// over Base, so it only needs the fields it changes. Sweep maps parameter
// names (see Params) to the values to try on top of Base.
type Batch struct {
	Workers int
	Base    *Config
	Runs    []*Config
	Sweep   map[string][]float64
}

// LoadBatch reads a yaml (or .toml) batch file:
//
//	workers: 8
//	base: {duration: 2, galaxy: {corotation: 8}}
//	runs:
//	  - init_state: {x: -10.79, y: 1.29787, vx: 27.5492, vy: -176.19}
//	sweep:
//	  eps: [0.1, 0.2, 0.3]
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b *Batch
	if isTOML(path) {
		b, err = decodeBatchTOML(data)
	} else {
		b, err = decodeBatchYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	if b.Workers <= 0 {
		b.Workers = runtime.NumCPU()
	}
	if err := b.Base.Validate(); err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	for i, run := range b.Runs {
		if err := run.Validate(); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
	}
	for name := range b.Sweep {
		if _, err := b.Base.Get(name); err != nil {
			return nil, fmt.Errorf("sweep: %w", err)
		}
	}
	return b, nil
}

func decodeBatchYAML(data []byte) (*Batch, error) {
	var raw struct {
		Workers int                  `yaml:"workers"`
		Base    yaml.Node            `yaml:"base"`
		Runs    []yaml.Node          `yaml:"runs"`
		Sweep   map[string][]float64 `yaml:"sweep"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	b := &Batch{Workers: raw.Workers, Base: DefaultConfig(), Sweep: raw.Sweep}
	if !raw.Base.IsZero() {
		if err := raw.Base.Decode(b.Base); err != nil {
			return nil, fmt.Errorf("base: %w", err)
		}
	}
	for i := range raw.Runs {
		run := b.Base.Clone()
		if err := raw.Runs[i].Decode(run); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		b.Runs = append(b.Runs, run)
	}
	return b, nil
}

func decodeBatchTOML(data []byte) (*Batch, error) {
	var raw struct {
		Workers int                  `toml:"workers"`
		Base    toml.Primitive       `toml:"base"`
		Runs    []toml.Primitive     `toml:"runs"`
		Sweep   map[string][]float64 `toml:"sweep"`
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	b := &Batch{Workers: raw.Workers, Base: DefaultConfig(), Sweep: raw.Sweep}
	if md.IsDefined("base") {
		if err := md.PrimitiveDecode(raw.Base, b.Base); err != nil {
			return nil, fmt.Errorf("base: %w", err)
		}
	}
	for i, prim := range raw.Runs {
		run := b.Base.Clone()
		if err := md.PrimitiveDecode(prim, run); err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		b.Runs = append(b.Runs, run)
	}
	return b, nil
}
