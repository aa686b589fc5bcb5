package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/integrators"
	"github.com/san-kum/flightsim/internal/log"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

var ErrGroundContact = errors.New("aircraft struck the ground")

type Options struct {
	// Integrator names the scheme, "rk4" when empty.
	Integrator string
	// Density overrides the sea-level density of the definition's units.
	Density float64
	// Workers bounds the goroutines used per aero evaluation, GOMAXPROCS
	// when zero.
	Workers   int
	StartTime float64
	Logger    *log.Logger
}

// Simulator owns one aircraft in flight. Step and Run must be called from
// a single goroutine; Snapshot and Stop are safe from any goroutine.
type Simulator struct {
	model *Model
	body  *rigidbody.Body
	aero  aero.Model
	mixer *control.Mixer
	lg    *log.Logger

	weight r3.Vec

	metrics   []Metric
	observers []Observer

	mu   sync.RWMutex
	snap Snapshot
	stop atomic.Bool
}

func New(model *Model, initial rigidbody.State, opts Options) (*Simulator, error) {
	integ, err := integrators.New(opts.Integrator)
	if err != nil {
		return nil, err
	}
	def := model.Def
	density := opts.Density
	if density <= 0 {
		density = def.Units.SeaLevelDensity()
	}
	am, err := aero.New(def, model.Geometry, aero.Options{Density: density, Workers: opts.Workers})
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		model:  model,
		body:   rigidbody.NewBody(model.Mass, integ, initial, opts.StartTime),
		aero:   am,
		mixer:  control.NewMixer(model.Mixing, opts.Logger),
		lg:     opts.Logger,
		weight: r3.Vec{Z: model.Mass.Mass * def.Units.Gravity()},
	}
	s.snap = s.evaluate(s.body.State(), control.Inputs{})

	s.lg.Info("simulator created",
		"aircraft", def.Name,
		"integrator", integ.Name(),
		"aero", am.Name(),
		"stations", len(model.Geometry.Stations),
		"density", density)
	return s, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Model() *Model         { return s.model }
func (s *Simulator) Mixer() *control.Mixer { return s.mixer }

// Snapshot returns a copy of the result of the last completed step.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Stop asks Run to return after the step in progress.
func (s *Simulator) Stop() { s.stop.Store(true) }

func (s *Simulator) Stopped() bool { return s.stop.Load() }

// Evaluate returns the loads the aircraft would see in state x under in,
// without advancing anything.
func (s *Simulator) Evaluate(x rigidbody.State, in control.Inputs) Snapshot {
	return s.evaluate(x, in)
}

func (s *Simulator) evaluate(x rigidbody.State, in control.Inputs) Snapshot {
	defl := s.mixer.Mix(in)
	throttles := s.mixer.Throttles(in)

	aeroFM := s.aero.Evaluate(x, defl)
	propFM := s.model.Propulsion.Evaluate(x, throttles)
	gravity := dynamo.ForceMoment{Force: frame.InertialToBody(x.Attitude, s.weight)}

	return Snapshot{
		Step:        s.body.Steps(),
		Time:        s.body.Time(),
		State:       x,
		Inputs:      in.Clone(),
		Deflections: defl,
		Throttles:   throttles,
		Aero:        aeroFM,
		Propulsion:  propFM,
		Gravity:     gravity,
		Total:       aeroFM.Add(propFM).Add(gravity),
	}
}

// Step advances the aircraft by dt under in. Loads are evaluated at the
// current state and held for the whole step. A *dynamo.NumericalError
// halts the simulator with the last good state kept.
func (s *Simulator) Step(in control.Inputs, dt float64) error {
	loads := s.evaluate(s.body.State(), in)
	if err := s.body.Step(loads.Total, dt); err != nil {
		return err
	}

	loads.Step = s.body.Steps()
	loads.Time = s.body.Time()
	loads.State = s.body.State()

	s.mu.Lock()
	s.snap = loads
	s.mu.Unlock()
	return nil
}

func (s *Simulator) Run(ctx context.Context, src control.Source, cfg RunConfig) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	result := &Result{Metrics: make(map[string]float64)}
	if cfg.Record {
		result.Times = make([]float64, 0, steps+1)
		result.States = make([]rigidbody.State, 0, steps+1)
		result.Times = append(result.Times, s.body.Time())
		result.States = append(result.States, s.body.State())
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	var limiter *rate.Limiter
	if cfg.RealTime {
		limiter = rate.NewLimiter(rate.Every(time.Duration(cfg.Dt*float64(time.Second))), 1)
	}

	var err error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil || s.stop.Load() {
			break
		}
		if limiter != nil {
			if err = limiter.Wait(ctx); err != nil {
				break
			}
		}

		in := src.Compute(s.body.State(), s.body.Time())
		if err = s.Step(in, cfg.Dt); err != nil {
			s.lg.Error("simulation halted", "error", err)
			break
		}
		result.StepsTaken++

		snap := s.Snapshot()
		if cfg.Record {
			result.Times = append(result.Times, snap.Time)
			result.States = append(result.States, snap.State)
		}
		for _, m := range s.metrics {
			m.Observe(&snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(&snap)
		}

		if cfg.StopAtGround && snap.State.Altitude() < 0 {
			err = fmt.Errorf("t=%.3fs: %w", snap.Time, ErrGroundContact)
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.Snapshot()
	result.Err = err
	return result, err
}

func validateConfig(cfg RunConfig) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
