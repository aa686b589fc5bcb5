// Package experiment turns a run configuration into a ready simulator with
// its input source, metrics and telemetry attached.
package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/log"
	"github.com/san-kum/flightsim/internal/sim"
	"github.com/san-kum/flightsim/internal/storage"
)

type Experiment struct {
	cfg       *config.Config
	model     *sim.Model
	simulator *sim.Simulator
	source    control.Source
	telemetry *storage.TelemetrySink
	lg        *log.Logger
}

func New(cfg *config.Config, lg *log.Logger) *Experiment {
	return &Experiment{cfg: cfg, lg: lg}
}

// Setup loads the aircraft and builds the simulator. A telemetry sink is
// opened when the configuration names one.
func (e *Experiment) Setup(registry *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	model, err := sim.Load(e.cfg.Aircraft)
	if err != nil {
		return fmt.Errorf("aircraft %s: %w", e.cfg.Aircraft, err)
	}

	s, err := sim.New(model, e.cfg.InitialState(), sim.Options{
		Integrator: e.cfg.Integrator,
		Density:    e.cfg.Atmosphere.Density,
		Workers:    e.cfg.Workers,
		StartTime:  e.cfg.StartTime,
		Logger:     e.lg,
	})
	if err != nil {
		return err
	}

	src, err := registry.GetSource(e.cfg.Source, e.cfg, model)
	if err != nil {
		return err
	}
	for _, m := range registry.DefaultMetrics(model) {
		s.AddMetric(m)
	}

	if path := e.cfg.Telemetry.SQLite; path != "" {
		sink, err := storage.OpenTelemetry(path, storage.TelemetryOptions{Aircraft: model.Def.Name, Logger: e.lg})
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		s.AddObserver(sink)
		e.telemetry = sink
		e.lg.Info("recording telemetry", "path", path, "run", sink.RunID())
	}

	e.model, e.simulator, e.source = model, s, src
	return nil
}

// Run flies the configured duration. States are always recorded.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.source, e.RunConfig())
}

func (e *Experiment) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		Dt:           e.cfg.Dt,
		Duration:     e.cfg.Duration,
		RealTime:     e.cfg.RealTime,
		StopAtGround: e.cfg.StopAtGround,
		Record:       true,
	}
}

// Close flushes telemetry. Telemetry failures are returned here and never
// from Run.
func (e *Experiment) Close() error {
	if e.telemetry == nil {
		return nil
	}
	err := e.telemetry.Close()
	if n := e.telemetry.Dropped(); n > 0 {
		err = errors.Join(err, fmt.Errorf("telemetry dropped %d frames", n))
	}
	return err
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Model() *sim.Model { return e.model }

func (e *Experiment) Source() control.Source { return e.source }

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Telemetry() *storage.TelemetrySink { return e.telemetry }
