package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/subsim/internal/body"
	"github.com/san-kum/subsim/internal/integrators"
	"github.com/san-kum/subsim/internal/physics"
	"github.com/san-kum/subsim/internal/submarine"
	"github.com/san-kum/subsim/internal/vec"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 60.0
	DefaultDepth    = 150.0
	DefaultKp       = 0.05
	DefaultKi       = 0.001
	DefaultKd       = 0.05
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrUnknownFormat = errors.New("config: unknown file format")
)

type Config struct {
	Name       string  `yaml:"name" toml:"name"`
	Integrator string  `yaml:"integrator" toml:"integrator"`
	Controller string  `yaml:"controller" toml:"controller"`
	Dt         float64 `yaml:"dt" toml:"dt"`
	Duration   float64 `yaml:"duration" toml:"duration"`
	// Throttle is the fixed throttle of the constant controller and the
	// starting throttle of manual runs.
	Throttle float64 `yaml:"throttle" toml:"throttle"`
	// Trim vents every tank to the neutral air fraction at the start depth.
	Trim bool `yaml:"trim" toml:"trim"`
	// StopAtSurface ends the run once the boat rises to the surface line.
	StopAtSurface bool `yaml:"stop_at_surface" toml:"stop_at_surface"`

	Submarine        submarine.Spec     `yaml:"submarine" toml:"submarine"`
	Medium           physics.Medium     `yaml:"medium" toml:"medium"`
	InitState        InitStateConfig    `yaml:"init_state" toml:"init_state"`
	ControllerParams ControllerConfig   `yaml:"controller_params" toml:"controller_params"`
	Deflections      map[string]float64 `yaml:"deflections,omitempty" toml:"deflections,omitempty"`
}

type InitStateConfig struct {
	X     float64 `yaml:"x" toml:"x"`
	Z     float64 `yaml:"z" toml:"z"`
	Angle float64 `yaml:"angle" toml:"angle"`
	VX    float64 `yaml:"vx" toml:"vx"`
	VZ    float64 `yaml:"vz" toml:"vz"`
	Omega float64 `yaml:"omega" toml:"omega"`
}

type ControllerConfig struct {
	Kp     float64 `yaml:"kp" toml:"kp"`
	Ki     float64 `yaml:"ki" toml:"ki"`
	Kd     float64 `yaml:"kd" toml:"kd"`
	Target float64 `yaml:"target" toml:"target"`
	// Tank and Surface name the actuator for depth and pitch holds.
	Tank    string `yaml:"tank,omitempty" toml:"tank,omitempty"`
	Surface string `yaml:"surface,omitempty" toml:"surface,omitempty"`
	// Limit bounds the actuator output; zero picks the controller default.
	Limit float64 `yaml:"limit,omitempty" toml:"limit,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Integrator: "semi-implicit-euler",
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Submarine:  submarine.DefaultSpec(),
		Medium:     physics.Seawater(),
		InitState:  InitStateConfig{Z: DefaultDepth},
		ControllerParams: ControllerConfig{
			Kp:     DefaultKp,
			Ki:     DefaultKi,
			Kd:     DefaultKd,
			Target: DefaultDepth,
		},
	}
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a scenario file over the defaults. The format follows the file
// extension: .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	switch f {
	case formatTOML:
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	var data []byte
	switch f {
	case formatTOML:
		data, err = toml.Marshal(cfg)
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Submarine.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Medium.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Clone returns a deep copy so presets can be tweaked by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Submarine = c.Submarine.Clone()
	out.Deflections = maps.Clone(c.Deflections)
	return &out
}

func (c *Config) Pose() body.Pose {
	return body.Pose{
		Position:    vec.XZ{X: c.InitState.X, Z: c.InitState.Z},
		Orientation: vec.Angle{Y: c.InitState.Angle},
	}
}

func (c *Config) Velocity() vec.XZ {
	return vec.XZ{X: c.InitState.VX, Z: c.InitState.VZ}
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":       c.ControllerParams.Kp,
		"ki":       c.ControllerParams.Ki,
		"kd":       c.ControllerParams.Kd,
		"target":   c.ControllerParams.Target,
		"limit":    c.ControllerParams.Limit,
		"throttle": c.Throttle,
	}
}
