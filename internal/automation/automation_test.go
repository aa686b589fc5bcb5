package automation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

const script = `
name: roll-and-pull
base: {3: 0.6}
steps:
  - {at: 1.0, axis: 0, value: 0.5, ramp: 0.5}
  - {at: 2.0, axis: 0, value: 0}
  - {at: 0.5, axis: 1, value: -0.3}
`

func TestScenarioCompute(t *testing.T) {
	sc, err := ParseScenario([]byte(script))
	require.NoError(t, err)
	assert.Equal(t, 2.0, sc.Duration())

	tests := []struct {
		t       float64
		aileron float64
		pitch   float64
	}{
		{0, 0, 0},
		{0.5, 0, -0.3},
		{1.0, 0, -0.3},
		{1.25, 0.25, -0.3},
		{1.5, 0.5, -0.3},
		{1.9, 0.5, -0.3},
		{2.0, 0, -0.3},
	}
	for _, tt := range tests {
		in := sc.Compute(rigidbody.State{}, tt.t)
		assert.InDelta(t, tt.aileron, in[0], 1e-12, "t=%g", tt.t)
		assert.InDelta(t, tt.pitch, in[1], 1e-12, "t=%g", tt.t)
		assert.Equal(t, 0.6, in[3], "t=%g", tt.t)
	}

	// the script never mutates its base
	assert.Equal(t, control.Inputs{3: 0.6}, sc.Base)
}

func TestParseScenarioRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":   "name: x\nsteps: [{at: 1, axis: 0, value: 1, hold: 2}]",
		"negative time": "name: x\nsteps: [{at: -1, axis: 0, value: 1}]",
		"negative ramp": "name: x\nsteps: [{at: 1, axis: 0, value: 1, ramp: -1}]",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestDoublet(t *testing.T) {
	d := Doublet(1, 0.2, 1, 0.5, control.Inputs{1: 0.1})
	assert.InDelta(t, 0.1, d.Compute(rigidbody.State{}, 0.9)[1], 1e-12)
	assert.InDelta(t, 0.3, d.Compute(rigidbody.State{}, 1.2)[1], 1e-12)
	assert.InDelta(t, -0.1, d.Compute(rigidbody.State{}, 1.7)[1], 1e-12)
	assert.InDelta(t, 0.1, d.Compute(rigidbody.State{}, 2.5)[1], 1e-12)
}

func loadModel(t *testing.T) *sim.Model {
	t.Helper()
	m, err := sim.Load("../../aircraft/trainer.yaml")
	require.NoError(t, err)
	return m
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{
		Model:    loadModel(t),
		Run:      sim.RunConfig{Dt: 0.01, Duration: 0.5},
		Initial:  rigidbody.Level(60, 300),
		Base:     control.Inputs{3: 0.6},
		Axis:     1,
		Min:      -0.5,
		Max:      0.5,
		NumSteps: 5,
		Parallel: 2,
	}
	results, err := RunSweep(context.Background(), sweep)
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, -0.5, results[0].Value)
	assert.Equal(t, 0.5, results[4].Value)
	for i := 1; i < len(results); i++ {
		require.NoError(t, results[i].Err)
		// more trailing-edge-down elevator, less nose-up pitch
		assert.Less(t, results[i].Final.Pitch, results[i-1].Final.Pitch)
		assert.Contains(t, results[i].Metrics, "energy")
	}
}

func TestMonteCarloIsSeeded(t *testing.T) {
	cfg := &MonteCarloConfig{
		Model:     loadModel(t),
		Run:       sim.RunConfig{Dt: 0.01, Duration: 0.3},
		BaseState: rigidbody.Level(60, 300),
		Source:    control.Constant{3: 0.6},
		Perturb:   Perturbation{Airspeed: 5, Alpha: 0.05, Attitude: 0.1, Rates: 0.1},
		NumTrials: 6,
		Seed:      7,
	}

	a, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, a, 6)
	assert.Equal(t, a, b)

	stable, unstable := MonteCarloStats(a)
	assert.Equal(t, 6, stable+unstable)
	assert.NotEqual(t, a[0].Initial, a[1].Initial)
}
