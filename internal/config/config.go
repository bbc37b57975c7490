package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/physics"
	"github.com/san-kum/corotrap/internal/units"
)

const (
	DefaultArms       = 4
	DefaultPitch      = 20.0 // deg
	DefaultCorotation = 8.0  // kpc
	DefaultEpsilon    = 0.3
	DefaultDuration   = 2.0 // Gyr
	DefaultIntegrator = "leapfrog"
	DefaultGrid       = "uniform"
	DefaultDataDir    = "data"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is one run. StepTime is in yr and Duration in Gyr.
type Config struct {
	Integrator string          `yaml:"integrator" toml:"integrator" json:"integrator"`
	StepTime   float64         `yaml:"step_time" toml:"step_time" json:"step_time"`
	Duration   float64         `yaml:"duration" toml:"duration" json:"duration"`
	Grid       string          `yaml:"grid" toml:"grid" json:"grid"`
	DataDir    string          `yaml:"data_dir" toml:"data_dir" json:"data_dir"`
	Galaxy     GalaxyConfig    `yaml:"galaxy" toml:"galaxy" json:"galaxy"`
	InitState  InitStateConfig `yaml:"init_state" toml:"init_state" json:"init_state"`
}

// GalaxyConfig holds the potential parameters: pitch in degrees, radii in
// kpc, vc in km/s and SigmaSun in Msun/pc^2.
type GalaxyConfig struct {
	Arms       int     `yaml:"arms" toml:"arms" json:"arms"`
	Pitch      float64 `yaml:"pitch" toml:"pitch" json:"pitch"`
	Corotation float64 `yaml:"corotation" toml:"corotation" json:"corotation"`
	Epsilon    float64 `yaml:"epsilon" toml:"epsilon" json:"epsilon"`
	Vc         float64 `yaml:"vc" toml:"vc" json:"vc"`
	RSun       float64 `yaml:"r_sun" toml:"r_sun" json:"r_sun"`
	SigmaSun   float64 `yaml:"sigma_sun" toml:"sigma_sun" json:"sigma_sun"`
	Rd         float64 `yaml:"rd" toml:"rd" json:"rd"`
}

// InitStateConfig is the inertial-frame initial condition in kpc and km/s.
type InitStateConfig struct {
	X  float64 `yaml:"x" toml:"x" json:"x"`
	Y  float64 `yaml:"y" toml:"y" json:"y"`
	VX float64 `yaml:"vx" toml:"vx" json:"vx"`
	VY float64 `yaml:"vy" toml:"vy" json:"vy"`
}

func DefaultConfig() *Config {
	disk := physics.DefaultDisk()
	return &Config{
		Integrator: DefaultIntegrator,
		StepTime:   dynamo.DefaultStepTime,
		Duration:   DefaultDuration,
		Grid:       DefaultGrid,
		DataDir:    DefaultDataDir,
		Galaxy: GalaxyConfig{
			Arms:       DefaultArms,
			Pitch:      DefaultPitch,
			Corotation: DefaultCorotation,
			Epsilon:    DefaultEpsilon,
			Vc:         disk.Vc,
			RSun:       disk.RSun,
			SigmaSun:   disk.SigmaSun,
			Rd:         disk.Rd,
		},
		InitState: InitStateConfig{X: -10.79, Y: 1.29787, VX: 27.5492, VY: -176.19},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a yaml file, or a toml file when the extension is .toml, over
// the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.GalaxyParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !(c.StepTime > 0) {
		return fmt.Errorf("%w: step_time must be positive, got %g", ErrInvalidConfig, c.StepTime)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.SimConfig().Steps() < 1 {
		return fmt.Errorf("%w: duration %g Gyr holds no step of %g yr", ErrInvalidConfig, c.Duration, c.StepTime)
	}
	if _, err := parseGrid(c.Grid); err != nil {
		return err
	}
	if s := c.InitialState(); s.AtOrigin() || !s.IsValid() {
		return fmt.Errorf("%w: initial state %+v", ErrInvalidConfig, c.InitState)
	}
	return nil
}

func parseGrid(name string) (dynamo.TimeGrid, error) {
	switch strings.ToLower(name) {
	case "", "uniform":
		return dynamo.GridUniform, nil
	case "linspace":
		return dynamo.GridLinspace, nil
	default:
		return 0, fmt.Errorf("%w: unknown grid %q", ErrInvalidConfig, name)
	}
}

func (c *Config) GalaxyParams() physics.Params {
	return physics.Params{
		Arms:       c.Galaxy.Arms,
		PitchDeg:   c.Galaxy.Pitch,
		Corotation: c.Galaxy.Corotation,
		Epsilon:    c.Galaxy.Epsilon,
		Disk: physics.Disk{
			Vc:       c.Galaxy.Vc,
			RSun:     c.Galaxy.RSun,
			SigmaSun: c.Galaxy.SigmaSun,
			Rd:       c.Galaxy.Rd,
		},
	}
}

func (c *Config) InitialState() dynamo.PhaseState {
	return dynamo.PhaseState{X: c.InitState.X, Y: c.InitState.Y, VX: c.InitState.VX, VY: c.InitState.VY}
}

// SimConfig converts to the simulator's configuration. An unknown grid
// falls back to uniform; Validate reports it.
func (c *Config) SimConfig() dynamo.Config {
	grid, _ := parseGrid(c.Grid)
	return dynamo.Config{
		StepTime:      c.StepTime,
		Duration:      units.GyrToYears(c.Duration),
		Grid:          grid,
		ValidateState: true,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Params lists the names accepted by Set, in dump-name order.
var Params = []string{"m", "th", "t", "CR", "eps", "x0", "y0", "vx0", "vy0"}

// Set assigns one named run parameter. Names match the keys of dump file
// names and batch tables.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "m":
		if v != float64(int(v)) {
			return fmt.Errorf("%w: arm count %g is not an integer", ErrInvalidConfig, v)
		}
		c.Galaxy.Arms = int(v)
	case "th":
		c.Galaxy.Pitch = v
	case "t":
		c.Duration = v
	case "CR":
		c.Galaxy.Corotation = v
	case "eps":
		c.Galaxy.Epsilon = v
	case "x0":
		c.InitState.X = v
	case "y0":
		c.InitState.Y = v
	case "vx0":
		c.InitState.VX = v
	case "vy0":
		c.InitState.VY = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
	return nil
}

// Get returns the named run parameter.
func (c *Config) Get(name string) (float64, error) {
	switch name {
	case "m":
		return float64(c.Galaxy.Arms), nil
	case "th":
		return c.Galaxy.Pitch, nil
	case "t":
		return c.Duration, nil
	case "CR":
		return c.Galaxy.Corotation, nil
	case "eps":
		return c.Galaxy.Epsilon, nil
	case "x0":
		return c.InitState.X, nil
	case "y0":
		return c.InitState.Y, nil
	case "vx0":
		return c.InitState.VX, nil
	case "vy0":
		return c.InitState.VY, nil
	default:
		return 0, fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, name)
	}
}
