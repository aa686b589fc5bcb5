package aero

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/airfoil"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/geometry"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

const rho = 0.0023769

func trainer(t *testing.T) (*aircraft.Definition, *geometry.Geometry) {
	t.Helper()
	def, err := aircraft.Load("../../aircraft/trainer.yaml")
	require.NoError(t, err)
	db, err := airfoil.NewDatabase(def.Airfoils)
	require.NoError(t, err)
	geo, err := geometry.Resolve(def, db)
	require.NoError(t, err)
	return def, geo
}

func neutral(def *aircraft.Definition) control.Deflections {
	return control.NewMixer(control.NewTable(def), nil).Mix(control.Inputs{})
}

func cruise() rigidbody.State {
	s := rigidbody.Level(60, 200)
	s.Velocity.Z = 3
	return s
}

func TestSymmetricFlightHasNoRollOrYaw(t *testing.T) {
	def, geo := trainer(t)
	m := NewStripModel(geo, def.CG, Options{Density: rho})

	fm := m.Evaluate(cruise(), neutral(def))
	scale := r3.Norm(fm.Force)
	require.Greater(t, scale, 1.0)

	assert.InDelta(t, 0, fm.Force.Y, 1e-9*scale)
	assert.InDelta(t, 0, fm.Moment.X, 1e-9*scale)
	assert.InDelta(t, 0, fm.Moment.Z, 1e-9*scale)
	// lift acts up (negative z) at positive alpha
	assert.Less(t, fm.Force.Z, 0.0)
}

func TestZeroAirspeedHasNoLoad(t *testing.T) {
	def, geo := trainer(t)
	m := NewStripModel(geo, def.CG, Options{Density: rho})

	fm := m.Evaluate(rigidbody.Level(0, 0), neutral(def))
	assert.Equal(t, r3.Vec{}, fm.Force)
	assert.Equal(t, r3.Vec{}, fm.Moment)
}

func TestWorkerCountDoesNotChangeResult(t *testing.T) {
	def, geo := trainer(t)
	s := cruise()
	s.Velocity.Y = -4
	s.Rates = r3.Vec{X: 0.3, Y: -0.1, Z: 0.05}
	defl := control.NewMixer(control.NewTable(def), nil).Mix(control.Inputs{0: 0.3, 1: -0.2, 2: 0.1})

	ref := NewStripModel(geo, def.CG, Options{Density: rho, Workers: 1}).Evaluate(s, defl)
	for _, workers := range []int{2, 3, 8, 64} {
		m := NewStripModel(geo, def.CG, Options{Density: rho, Workers: workers})
		m.minChunk = 1
		got := m.Evaluate(s, defl)
		assert.Equal(t, ref, got, "workers=%d", workers)
	}
}

func TestDampingAndControlSigns(t *testing.T) {
	def, geo := trainer(t)
	m := NewStripModel(geo, def.CG, Options{Density: rho})
	mixer := control.NewMixer(control.NewTable(def), nil)
	base := m.Evaluate(cruise(), neutral(def))

	rolling := cruise()
	rolling.Rates.X = 0.5
	assert.Less(t, m.Evaluate(rolling, neutral(def)).Moment.X, base.Moment.X, "roll damping")

	pitching := cruise()
	pitching.Rates.Y = 0.5
	assert.Less(t, m.Evaluate(pitching, neutral(def)).Moment.Y, base.Moment.Y, "pitch damping")

	aileron := m.Evaluate(cruise(), mixer.Mix(control.Inputs{0: 1}))
	assert.Less(t, aileron.Moment.X, base.Moment.X, "positive aileron rolls left")

	elevator := m.Evaluate(cruise(), mixer.Mix(control.Inputs{1: 1}))
	assert.Less(t, elevator.Moment.Y, base.Moment.Y, "trailing-edge-down elevator pitches nose down")
}

// A one-station-per-side tail two feet behind the CG has a closed-form
// pitching moment.
func TestSingleStationGolden(t *testing.T) {
	const (
		cla   = 6.1
		cma   = -0.05
		cmL0  = 0.01
		cd0   = 0.006
		chord = 0.5
		span  = 1.0
	)
	def := &aircraft.Definition{
		Units: aircraft.English,
		Controls: []aircraft.Control{
			{Name: "elevator", Axis: 1, MaxDeflection: 20 * math.Pi / 180, Symmetric: true},
		},
		Airfoils: []aircraft.AirfoilSpec{
			{Name: "tail", Type: aircraft.LinearAirfoil, CLa: cla, Cma: cma, CmL0: cmL0, CD0: cd0},
		},
		Wings: []aircraft.Wing{{
			ID:       1,
			Side:     aircraft.Both,
			Semispan: span,
			Offset:   r3.Vec{X: -2},
			Chord:    aircraft.Constant(chord),
			Sweep:    aircraft.Constant(0),
			Dihedral: aircraft.Constant(0),
			Twist:    aircraft.Constant(0),
			Airfoil:  "tail",
			Surface:  &aircraft.ControlSurface{ChordFraction: 0.3, RootSpan: 0, TipSpan: 1, Mixing: map[string]float64{"elevator": 1}},
			Grid:     aircraft.Grid{N: 1, Clustering: aircraft.Uniform},
		}},
	}
	db, err := airfoil.NewDatabase(def.Airfoils)
	require.NoError(t, err)
	geo, err := geometry.Resolve(def, db)
	require.NoError(t, err)
	require.Len(t, geo.Stations, 2)

	m := NewStripModel(geo, def.CG, Options{Density: rho})
	defl := control.NewMixer(control.NewTable(def), nil).Mix(control.Inputs{1: 1})
	s := rigidbody.State{Velocity: r3.Vec{X: 40, Z: 2}, Attitude: rigidbody.Level(0, 0).Attitude}
	fm := m.Evaluate(s, defl)

	alpha := math.Atan2(2, 40)
	delta := 20 * math.Pi / 180
	k := cla * airfoil.FlapEffectiveness(0.3)
	cl := cla*alpha + k*delta
	cd := cd0
	cm := cmL0 + cma*alpha
	qa := 0.5 * rho * (40*40 + 2*2) * chord * span

	fz := qa * (-cl*math.Cos(alpha) - cd*math.Sin(alpha))
	fx := qa * (cl*math.Sin(alpha) - cd*math.Cos(alpha))
	my := 2 * (2*fz + qa*chord*cm)

	assert.InDelta(t, 2*fz, fm.Force.Z, 1e-9)
	assert.InDelta(t, 2*fx, fm.Force.X, 1e-9)
	assert.InDelta(t, my, fm.Moment.Y, 1e-9)
	// tail lift behind the CG pitches the nose down
	assert.Less(t, fm.Moment.Y, 0.0)

	loads := m.Loads()
	assert.InDelta(t, alpha, loads[0].Alpha, 1e-15)
	assert.InDelta(t, delta, loads[1].Deflection, 1e-15)
}

func TestNewRejectsUnknownModel(t *testing.T) {
	def, geo := trainer(t)
	_, err := New(def, geo, Options{Density: rho})
	require.NoError(t, err)

	bad := *def
	bad.Aero = "vortex-lattice"
	_, err = New(&bad, geo, Options{Density: rho})
	assert.Error(t, err)
}
