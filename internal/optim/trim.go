package optim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

// TrimConfig asks for wings-level, constant-speed flight at Airspeed and
// Altitude along a flight path angle Gamma (radians, climb positive).
type TrimConfig struct {
	Airspeed     float64
	Altitude     float64
	Gamma        float64
	ElevatorAxis int
	ThrottleAxis int
	// Points per parameter per pass and number of refinement passes.
	Points int
	Passes int
}

type Trim struct {
	Alpha    float64
	Elevator float64
	Throttle float64
	// Cost is |a|² + |ω̇|² at the trim point, body-frame.
	Cost  float64
	State rigidbody.State
}

func (t Trim) Inputs(elevatorAxis, throttleAxis int) control.Inputs {
	return control.Inputs{elevatorAxis: t.Elevator, throttleAxis: t.Throttle}
}

// FindTrim searches angle of attack, elevator and throttle for the point
// where the loads from s.Evaluate produce the smallest accelerations. It
// does not advance s.
func FindTrim(ctx context.Context, s *sim.Simulator, cfg TrimConfig) (*Trim, error) {
	if cfg.Points < 2 {
		cfg.Points = 9
	}
	if cfg.Passes < 1 {
		cfg.Passes = 6
	}
	mp := s.Model().Mass

	state := func(alpha float64) rigidbody.State {
		st := rigidbody.Level(0, cfg.Altitude)
		st.Velocity = r3.Vec{X: cfg.Airspeed * math.Cos(alpha), Z: cfg.Airspeed * math.Sin(alpha)}
		st.Attitude = frame.FromEuler(frame.Euler{Pitch: alpha + cfg.Gamma})
		return st
	}
	cost := func(p map[string]float64) (float64, error) {
		st := state(p["alpha"])
		snap := s.Evaluate(st, control.Inputs{cfg.ElevatorAxis: p["elevator"], cfg.ThrottleAxis: p["throttle"]})
		if !snap.Total.IsFinite() {
			return 0, fmt.Errorf("non-finite loads at %v", p)
		}
		a := r3.Scale(1/mp.Mass, snap.Total.Force)
		wdot := mp.Solve(snap.Total.Moment)
		return r3.Dot(a, a) + r3.Dot(wdot, wdot), nil
	}

	names := []string{"alpha", "elevator", "throttle"}
	bounds := [][2]float64{{-0.2, 0.3}, {-1, 1}, {0, 1}}
	best, c, err := Refine(ctx, names, bounds, cfg.Points, cfg.Passes, cost)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, fmt.Errorf("no finite trim point at %g", cfg.Airspeed)
	}
	return &Trim{
		Alpha:    best["alpha"],
		Elevator: best["elevator"],
		Throttle: best["throttle"],
		Cost:     c,
		State:    state(best["alpha"]),
	}, nil
}
