package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/metrics"
	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

// ParameterSweep flies one aircraft once per value of a single input
// axis held constant for the whole run.
type ParameterSweep struct {
	Model    *sim.Model
	Options  sim.Options
	Run      sim.RunConfig
	Initial  rigidbody.State
	Base     control.Inputs
	Axis     int
	Min, Max float64
	NumSteps int
	// Parallel bounds concurrent runs, unlimited when zero.
	Parallel int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	Value   float64
	Final   sim.FlightData
	Metrics map[string]float64
	Err     error
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	values := make([]float64, sweep.NumSteps)
	members := make([]sim.Member, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.Min
		if sweep.NumSteps > 1 {
			values[i] += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
		}
		in := sweep.Base.Clone()
		in[sweep.Axis] = values[i]
		members[i] = sim.Member{Initial: sweep.Initial, Source: control.Constant(in)}
	}

	results, err := batch(sweep.Model, sweep.Options, sweep.Parallel).Run(ctx, members, sweep.Run)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, res := range results {
		out[i] = SweepResult{
			Value:   values[i],
			Final:   res.Final.Flight(),
			Metrics: res.Metrics,
			Err:     res.Err,
		}
	}
	return out, nil
}

// Perturbation bounds the uniform random dispersion applied to each trial.
// Angles and rates are in radians.
type Perturbation struct {
	Airspeed float64
	Alpha    float64
	Attitude float64
	Rates    float64
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Model     *sim.Model
	Options   sim.Options
	Run       sim.RunConfig
	BaseState rigidbody.State
	Source    control.Source
	Perturb   Perturbation
	NumTrials int
	Seed      int64
	Parallel  int
	// MaxBank marks a trial unstable when exceeded at the end of the run.
	MaxBank float64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID int
	Initial rigidbody.State
	Final   sim.FlightData
	Stable  bool
	Err     error
}

// RunMonteCarlo executes multiple trials with random perturbations. The
// source is shared by every trial and must be safe for concurrent use.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	spread := func(width float64) float64 { return (rng.Float64() - 0.5) * 2 * width }

	members := make([]sim.Member, cfg.NumTrials)
	for i := range members {
		base := cfg.BaseState
		e := base.Euler()
		e.Roll += spread(cfg.Perturb.Attitude)
		e.Pitch += spread(cfg.Perturb.Attitude)

		speed := base.Airspeed() + spread(cfg.Perturb.Airspeed)
		alpha := base.Alpha() + spread(cfg.Perturb.Alpha)

		s := base
		s.Attitude = frame.FromEuler(e)
		s.Velocity = r3.Vec{X: speed * math.Cos(alpha), Y: base.Velocity.Y, Z: speed * math.Sin(alpha)}
		s.Rates = r3.Add(base.Rates, r3.Vec{
			X: spread(cfg.Perturb.Rates),
			Y: spread(cfg.Perturb.Rates),
			Z: spread(cfg.Perturb.Rates),
		})
		members[i] = sim.Member{Initial: s, Source: cfg.Source}
	}

	e := batch(cfg.Model, cfg.Options, cfg.Parallel)
	results, err := e.Run(ctx, members, cfg.Run)
	if err != nil {
		return nil, err
	}

	maxBank := cfg.MaxBank
	if maxBank <= 0 {
		maxBank = math.Pi / 2
	}
	out := make([]MonteCarloResult, len(results))
	for i, res := range results {
		fd := res.Final.Flight()
		out[i] = MonteCarloResult{
			TrialID: i,
			Initial: members[i].Initial,
			Final:   fd,
			Stable:  res.Err == nil && math.Abs(fd.Roll) < maxBank,
			Err:     res.Err,
		}
	}
	return out, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

func batch(model *sim.Model, opts sim.Options, parallel int) *sim.Ensemble {
	return &sim.Ensemble{
		Model:       model,
		Options:     opts,
		Parallel:    parallel,
		Independent: true,
		Setup: func(_ int, s *sim.Simulator) {
			for _, m := range metrics.Default(model) {
				s.AddMetric(m)
			}
		},
	}
}
