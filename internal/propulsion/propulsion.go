// Package propulsion evaluates engine thrust.
package propulsion

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Model sums the force and moment about the CG of every engine. It holds no
// mutable state.
type Model struct {
	engines []aircraft.Engine
	cg      r3.Vec
}

func New(def *aircraft.Definition) *Model {
	return &Model{engines: def.Engines, cg: def.CG}
}

func (m *Model) Engines() int { return len(m.engines) }

// Thrust is (T0 + T1 V + T2 V²)·throttle^a for one engine, never negative.
func Thrust(e aircraft.Engine, airspeed, throttle float64) float64 {
	if throttle <= 0 {
		return 0
	}
	t := (e.T0 + e.T1*airspeed + e.T2*airspeed*airspeed) * math.Pow(throttle, e.A)
	return math.Max(t, 0)
}

// Evaluate applies each engine's thrust along its axis at its position and
// adds the gyroscopic moment h_spin × ω. throttles is indexed like the
// definition's engines.
func (m *Model) Evaluate(s rigidbody.State, throttles []float64) dynamo.ForceMoment {
	v := s.Airspeed()
	var total dynamo.ForceMoment
	for i, e := range m.engines {
		throttle := 0.0
		if i < len(throttles) {
			throttle = throttles[i]
		}
		f := r3.Scale(Thrust(e, v, throttle), e.Direction)
		r := r3.Sub(e.Position, m.cg)

		total.Force = r3.Add(total.Force, f)
		total.Moment = r3.Add(total.Moment, r3.Cross(r, f))
		if e.SpinMomentum != (r3.Vec{}) {
			total.Moment = r3.Add(total.Moment, r3.Cross(e.SpinMomentum, s.Rates))
		}
	}
	return total
}
