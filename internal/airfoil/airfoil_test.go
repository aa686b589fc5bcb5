package airfoil

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/dynamo"
)

func naca2412() aircraft.AirfoilSpec {
	return aircraft.AirfoilSpec{
		Name: "NACA2412",
		Type: aircraft.LinearAirfoil,
		AL0:  -0.0364,
		CLa:  6.1976,
		CmL0: -0.0527,
		Cma:  -0.08,
		CD0:  0.0055,
		CD1:  -0.0045,
		CD2:  0.01,
	}
}

func TestLinearZeroLift(t *testing.T) {
	a, err := New(naca2412())
	require.NoError(t, err)

	cl, cd, _ := a.Coefficients(-0.0364, 0)
	assert.Equal(t, 0.0, cl)
	assert.Equal(t, 0.0055, cd)
}

func TestLinearLiftSlope(t *testing.T) {
	a, err := New(naca2412())
	require.NoError(t, err)

	for _, alpha := range []float64{-0.2, 0, 0.05, 0.3} {
		cl1, _, _ := a.Coefficients(alpha, 0)
		cl2, _, _ := a.Coefficients(alpha+0.1, 0)
		assert.InDelta(t, 6.1976, (cl2-cl1)/0.1, 1e-9, "alpha=%g", alpha)
	}
}

func TestLinearDragPolar(t *testing.T) {
	a, _ := New(naca2412())
	cl, cd, cm := a.Coefficients(0.1, 0)
	assert.InDelta(t, 0.0055-0.0045*cl+0.01*cl*cl, cd, 1e-15)
	assert.InDelta(t, -0.0527-0.008, cm, 1e-15)
}

func TestFlapEffectiveness(t *testing.T) {
	tests := []struct {
		cf   float64
		want float64
	}{
		{0, 0},
		{1, 1},
		// θf = π/2 at cf = 0.5
		{0.5, 1 - (math.Pi/2-1)/math.Pi},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, FlapEffectiveness(tt.cf), 1e-12, "cf=%g", tt.cf)
	}
	assert.Less(t, FlapEffectiveness(0.2), FlapEffectiveness(0.3))
}

func TestDatabasePair(t *testing.T) {
	explicit := naca2412()
	explicit.Name = "explicit"
	explicit.KDeflection, explicit.HasKDeflection = 3.0, true

	db, err := NewDatabase([]aircraft.AirfoilSpec{naca2412(), explicit})
	require.NoError(t, err)
	assert.Equal(t, []string{"NACA2412", "explicit"}, db.Names())

	paired, err := db.Pair("NACA2412", 0.25)
	require.NoError(t, err)
	clPlain, _, _ := paired.Coefficients(0, 0)
	clDefl, _, _ := paired.Coefficients(0, 0.1)
	assert.InDelta(t, 6.1976*FlapEffectiveness(0.25)*0.1, clDefl-clPlain, 1e-12)

	// pairing copies the provider
	base, _ := db.Lookup("NACA2412")
	assert.Equal(t, 0.0, base.(*Linear).K)

	fixed, err := db.Pair("explicit", 0.25)
	require.NoError(t, err)
	assert.Equal(t, 3.0, fixed.(*Linear).K)
}

func TestDatabaseUnknown(t *testing.T) {
	db, err := NewDatabase(nil)
	require.NoError(t, err)

	_, err = db.Lookup("NACA0012")
	var cerr *dynamo.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, dynamo.UnknownAirfoil, cerr.Kind)
}

func TestTabulated(t *testing.T) {
	spec := aircraft.AirfoilSpec{
		Name:  "table",
		Type:  aircraft.NonlinearAirfoil,
		Alpha: []float64{-0.2, 0, 0.2, 0.4},
		CL:    []float64{-1.0, 0.2, 1.4, 1.2},
		CD:    []float64{0.02, 0.01, 0.02, 0.08},
		Cm:    []float64{0, 0, 0, -0.1},
	}
	db, err := NewDatabase([]aircraft.AirfoilSpec{spec})
	require.NoError(t, err)

	a, err := db.Lookup("table")
	require.NoError(t, err)
	cl, cd, _ := a.Coefficients(0.1, 0)
	assert.InDelta(t, 0.8, cl, 1e-12)
	assert.InDelta(t, 0.015, cd, 1e-12)

	// past stall the table holds its last value
	cl, _, cm := a.Coefficients(1.0, 0)
	assert.InDelta(t, 1.2, cl, 1e-12)
	assert.InDelta(t, -0.1, cm, 1e-12)

	paired, err := db.Pair("table", 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, paired.(*Tabulated).K, 1e-12)
}
