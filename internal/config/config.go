// Package config holds the settings of one simulation run: which aircraft,
// how long, how to integrate, where to start and who is flying.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flightsim/internal/automation"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

const (
	DefaultAircraft = "aircraft/trainer.yaml"
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultAirspeed = 60.0
	DefaultAltitude = 500.0
	DefaultKp       = 1.5
	DefaultKi       = 0.2
	DefaultKd       = 0.3
)

// Source names.
const (
	SourceConstant    = "constant"
	SourceScenario    = "scenario"
	SourcePitchHold   = "pitch_hold"
	SourceWingLeveler = "wing_leveler"
)

type Config struct {
	Aircraft     string  `yaml:"aircraft"`
	Integrator   string  `yaml:"integrator"`
	Source       string  `yaml:"source"`
	Dt           float64 `yaml:"dt"`
	Duration     float64 `yaml:"duration"`
	StartTime    float64 `yaml:"start_time,omitempty"`
	Workers      int     `yaml:"workers,omitempty"`
	RealTime     bool    `yaml:"real_time,omitempty"`
	StopAtGround bool    `yaml:"stop_at_ground,omitempty"`

	Atmosphere AtmosphereConfig `yaml:"atmosphere,omitempty"`
	Initial    InitialConfig    `yaml:"initial"`
	Inputs     control.Inputs   `yaml:"inputs,omitempty"`
	// Scenario is a path to a script; Script is one written inline.
	Scenario  string               `yaml:"scenario,omitempty"`
	Script    *automation.Scenario `yaml:"script,omitempty"`
	Autopilot AutopilotConfig      `yaml:"autopilot,omitempty"`
	Telemetry TelemetryConfig      `yaml:"telemetry,omitempty"`
}

type AtmosphereConfig struct {
	// Density overrides the sea-level density of the aircraft's units.
	Density float64 `yaml:"density,omitempty"`
}

// InitialConfig is the starting condition. Angles are in degrees and rates
// in degrees per second.
type InitialConfig struct {
	Airspeed float64 `yaml:"airspeed"`
	Altitude float64 `yaml:"altitude"`
	Alpha    float64 `yaml:"alpha,omitempty"`
	Beta     float64 `yaml:"beta,omitempty"`
	Heading  float64 `yaml:"heading,omitempty"`
	Pitch    float64 `yaml:"pitch,omitempty"`
	Bank     float64 `yaml:"bank,omitempty"`
	P        float64 `yaml:"p,omitempty"`
	Q        float64 `yaml:"q,omitempty"`
	R        float64 `yaml:"r,omitempty"`
}

// AutopilotConfig tunes the pitch-hold and wing-leveler sources. Target is
// in degrees.
type AutopilotConfig struct {
	Axis   int     `yaml:"axis"`
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"`
}

type TelemetryConfig struct {
	SQLite string `yaml:"sqlite,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Aircraft:   DefaultAircraft,
		Integrator: "rk4",
		Source:     SourceConstant,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Initial: InitialConfig{
			Airspeed: DefaultAirspeed,
			Altitude: DefaultAltitude,
		},
		Autopilot: AutopilotConfig{
			Axis: 1,
			Kp:   DefaultKp,
			Ki:   DefaultKi,
			Kd:   DefaultKd,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Atmosphere.Density < 0 {
		return fmt.Errorf("atmosphere density must not be negative, got %g", c.Atmosphere.Density)
	}
	switch c.Source {
	case SourceConstant, SourcePitchHold, SourceWingLeveler:
	case SourceScenario:
		if c.Scenario == "" && c.Script == nil {
			return fmt.Errorf("source %q needs a scenario path or an inline script", c.Source)
		}
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	return nil
}

// InitialState converts the starting condition into a body state. An
// unset pitch is taken equal to alpha, giving a level flight path.
func (c *Config) InitialState() rigidbody.State {
	in := c.Initial
	alpha, beta := frame.Rad(in.Alpha), frame.Rad(in.Beta)
	pitch := in.Pitch
	if pitch == 0 {
		pitch = in.Alpha
	}

	return rigidbody.State{
		Velocity: r3.Vec{
			X: in.Airspeed * math.Cos(alpha) * math.Cos(beta),
			Y: in.Airspeed * math.Sin(beta),
			Z: in.Airspeed * math.Sin(alpha) * math.Cos(beta),
		},
		Rates:    r3.Vec{X: frame.Rad(in.P), Y: frame.Rad(in.Q), Z: frame.Rad(in.R)},
		Position: r3.Vec{Z: -in.Altitude},
		Attitude: frame.FromEuler(frame.Euler{
			Roll:  frame.Rad(in.Bank),
			Pitch: frame.Rad(pitch),
			Yaw:   frame.Rad(in.Heading),
		}),
	}
}
