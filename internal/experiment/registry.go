package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/automation"
	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/integrators"
	"github.com/san-kum/flightsim/internal/metrics"
	"github.com/san-kum/flightsim/internal/sim"
)

// SourceFunc builds an input source from the run settings.
type SourceFunc func(cfg *config.Config, model *sim.Model) (control.Source, error)

type Registry struct {
	sources map[string]SourceFunc
}

func NewRegistry() *Registry {
	r := &Registry{sources: make(map[string]SourceFunc)}

	r.sources[config.SourceConstant] = func(cfg *config.Config, _ *sim.Model) (control.Source, error) {
		return control.Constant(cfg.Inputs.Clone()), nil
	}
	r.sources[config.SourceScenario] = func(cfg *config.Config, _ *sim.Model) (control.Source, error) {
		if cfg.Script != nil {
			if err := cfg.Script.Validate(); err != nil {
				return nil, err
			}
			return cfg.Script, nil
		}
		return automation.LoadScenario(cfg.Scenario)
	}
	r.sources[config.SourcePitchHold] = func(cfg *config.Config, _ *sim.Model) (control.Source, error) {
		ap := cfg.Autopilot
		pid := control.NewPID(ap.Kp, ap.Ki, ap.Kd, frame.Rad(ap.Target))
		return control.NewPitchHold(pid, ap.Axis, control.Constant(cfg.Inputs.Clone())), nil
	}
	r.sources[config.SourceWingLeveler] = func(cfg *config.Config, model *sim.Model) (control.Source, error) {
		axis := 0
		if ch, ok := aileron(model.Def); ok {
			axis = ch.Axis
		}
		return control.NewWingLeveler(axis, control.Constant(cfg.Inputs.Clone())), nil
	}

	return r
}

// aileron finds the first antisymmetric channel that is not a rudder.
func aileron(def *aircraft.Definition) (aircraft.Control, bool) {
	if ch, ok := def.Control("aileron"); ok {
		return ch, true
	}
	for _, ch := range def.Controls {
		if !ch.Symmetric && ch.Name != "rudder" {
			return ch, true
		}
	}
	return aircraft.Control{}, false
}

func (r *Registry) GetSource(name string, cfg *config.Config, model *sim.Model) (control.Source, error) {
	fn, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown source: %s", name)
	}
	return fn(cfg, model)
}

func (r *Registry) ListSources() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

func (r *Registry) ListAeroModels() []string {
	return []string{string(aircraft.StripTheory)}
}

func (r *Registry) DefaultMetrics(model *sim.Model) []sim.Metric {
	return metrics.Default(model)
}
