package config

import (
	"sort"

	"github.com/san-kum/flightsim/internal/automation"
	"github.com/san-kum/flightsim/internal/control"
)

var Presets = map[string]*Config{
	"cruise": {
		Aircraft: DefaultAircraft, Integrator: "rk4", Source: SourceConstant, Dt: 0.01, Duration: 20.0,
		Initial: InitialConfig{Airspeed: 60, Altitude: 500, Alpha: 4},
		Inputs:  control.Inputs{3: 0.1},
	},
	"climb": {
		Aircraft: DefaultAircraft, Integrator: "rk4", Source: SourceConstant, Dt: 0.01, Duration: 20.0,
		Initial: InitialConfig{Airspeed: 55, Altitude: 200, Alpha: 5, Pitch: 10},
		Inputs:  control.Inputs{1: -0.1, 3: 1},
	},
	"pitch_doublet": {
		Aircraft: DefaultAircraft, Integrator: "rk4", Source: SourceScenario, Dt: 0.005, Duration: 8.0,
		Initial: InitialConfig{Airspeed: 60, Altitude: 500, Alpha: 4},
		Script:  automation.Doublet(1, 0.3, 1, 0.5, control.Inputs{3: 0.1}),
	},
	"bank_hold": {
		Aircraft: DefaultAircraft, Integrator: "rk4", Source: SourceWingLeveler, Dt: 0.01, Duration: 15.0,
		Initial: InitialConfig{Airspeed: 60, Altitude: 500, Alpha: 4, Bank: 30},
		Inputs:  control.Inputs{3: 0.1},
	},
	"pitch_hold": {
		Aircraft: DefaultAircraft, Integrator: "rk4", Source: SourcePitchHold, Dt: 0.01, Duration: 15.0,
		Initial:   InitialConfig{Airspeed: 60, Altitude: 500, Alpha: 4},
		Inputs:    control.Inputs{3: 0.3},
		Autopilot: AutopilotConfig{Axis: 1, Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd, Target: 8},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Inputs = p.Inputs.Clone()
	if cfg.Autopilot == (AutopilotConfig{}) {
		cfg.Autopilot = DefaultConfig().Autopilot
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
