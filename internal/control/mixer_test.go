package control

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/log"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

func testDefinition() *aircraft.Definition {
	return &aircraft.Definition{
		Controls: []aircraft.Control{
			{Name: "aileron", Axis: 0, MaxDeflection: deg(20)},
			{Name: "elevator", Axis: 1, MaxDeflection: deg(20), Symmetric: true},
			{Name: "throttle", Axis: 3, Symmetric: true},
		},
		Engines: []aircraft.Engine{{Name: "motor", Control: "throttle"}, {Name: "fixed"}},
		Wings: []aircraft.Wing{
			{ID: 1, Surface: &aircraft.ControlSurface{Mixing: map[string]float64{"aileron": 0.4, "elevator": 1.0}}},
			{ID: 2},
		},
	}
}

func TestMixElevon(t *testing.T) {
	m := NewMixer(NewTable(testDefinition()), nil)

	tests := []struct {
		name        string
		in          Inputs
		right, left float64
	}{
		{"aileron only", Inputs{0: 1}, 0.4 * deg(20), -0.4 * deg(20)},
		{"elevator only", Inputs{1: 0.5}, deg(10), deg(10)},
		{"combined", Inputs{0: 0.5, 1: 0.5}, deg(14), deg(6)},
		{"saturated", Inputs{0: 1, 1: 1}, deg(20), deg(12)},
		{"neutral", Inputs{}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := m.Mix(tt.in)
			assert.InDelta(t, tt.right, d.Right[0], 1e-12)
			assert.InDelta(t, tt.left, d.Left[0], 1e-12)
			assert.Equal(t, 0.0, d.Right[1])
			assert.Equal(t, d.Right[0], d.Side(0, aircraft.Right))
			assert.Equal(t, d.Left[0], d.Side(0, aircraft.Left))
		})
	}
}

func TestMixClampsInputsAndWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	m := NewMixer(NewTable(testDefinition()), log.NewWriter(&buf, "info"))

	d := m.Mix(Inputs{1: 3})
	assert.InDelta(t, deg(20), d.Right[0], 1e-12)
	m.Mix(Inputs{1: -7})
	m.Mix(Inputs{1: math.NaN()})

	assert.True(t, m.Clamped(1))
	assert.False(t, m.Clamped(0))
	assert.Equal(t, 1, strings.Count(buf.String(), "out of range"))
	assert.Contains(t, buf.String(), `"channel":"elevator"`)
}

func TestThrottles(t *testing.T) {
	m := NewMixer(NewTable(testDefinition()), nil)
	assert.Equal(t, []float64{0.6, 1}, m.Throttles(Inputs{3: 0.6}))
	assert.Equal(t, []float64{0, 1}, m.Throttles(Inputs{3: -0.2}))
	assert.Equal(t, []float64{1, 1}, m.Throttles(Inputs{3: 1.5}))
}

func TestManualSource(t *testing.T) {
	src := NewManual(Inputs{3: 0.5})
	src.Set(1, 0.2)
	assert.InDelta(t, 0.9, src.Nudge(1, 1.0, -0.9, 0.9), 1e-12)

	in := src.Compute(rigidbody.Level(50, 100), 0)
	in[3] = 0
	assert.Equal(t, 0.5, src.Get(3), "Compute must return a copy")
}

func TestPIDIntegralIsBounded(t *testing.T) {
	pid := NewPID(0, 0.5, 0, 1)
	pid.Update(0, 0)
	var u float64
	for i := 1; i <= 100; i++ {
		u = pid.Update(0, float64(i))
	}
	assert.InDelta(t, 1.0, u, 1e-12)

	pid.IntegralLimit = 0
	assert.Greater(t, pid.Update(0, 101), 1.0)
}

func TestPIDDerivativeOnMeasurement(t *testing.T) {
	pid := NewPID(0, 0, 2, 0)
	pid.Update(0, 0)
	// a target step alone does not move the output
	pid.Target = 5
	assert.Equal(t, 0.0, pid.Update(0, 0.1))
	// a rising measurement is damped
	assert.InDelta(t, -2*1/0.1, pid.Update(1, 0.2), 1e-9)
	// no time advance keeps only the proportional and integral parts
	assert.Equal(t, 0.0, pid.Update(3, 0.2))
}

func TestPitchHold(t *testing.T) {
	hold := NewPitchHold(NewPID(2, 0, 0, deg(5)), 1, Constant{3: 0.7})

	s := rigidbody.Level(50, 100)
	in := hold.Compute(s, 0)
	require.Contains(t, in, 3)
	assert.Equal(t, 0.7, in[3])
	assert.InDelta(t, -2*deg(5), in[1], 1e-12)

	s.Attitude = frame.FromEuler(frame.Euler{Pitch: deg(60)})
	in = hold.Compute(s, 0.1)
	// far above target: full nose-down elevator
	assert.Equal(t, 1.0, in[1])
}

func TestWingLeveler(t *testing.T) {
	wl := NewWingLeveler(0, nil)
	s := rigidbody.Level(50, 100)
	s.Attitude = frame.FromEuler(frame.Euler{Roll: deg(10)})

	in := wl.Compute(s, 0)
	// right wing down: positive aileron raises it
	assert.InDelta(t, 1.5*deg(10), in[0], 1e-9)
}
