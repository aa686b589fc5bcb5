package rigidbody

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/frame"
)

// Layout of the flat state vector.
const (
	U = iota
	V
	W
	P
	Q
	R
	X
	Y
	Z
	E0
	EX
	EY
	EZ
	StateDim
)

var fieldNames = [StateDim]string{"u", "v", "w", "p", "q", "r", "x", "y", "z", "e0", "ex", "ey", "ez"}

// FieldName returns the conventional symbol for state index i.
func FieldName(i int) string {
	if i < 0 || i >= StateDim {
		return "?"
	}
	return fieldNames[i]
}

// State is the aircraft state: body-frame velocity and angular rate,
// position in the inertial NED frame, and the body-to-inertial attitude
// quaternion.
type State struct {
	Velocity r3.Vec
	Rates    r3.Vec
	Position r3.Vec
	Attitude quat.Number
}

// Level returns a wings-level state flying along body x at airspeed,
// altitude above the origin.
func Level(airspeed, altitude float64) State {
	return State{
		Velocity: r3.Vec{X: airspeed},
		Position: r3.Vec{Z: -altitude},
		Attitude: frame.Identity,
	}
}

func (s State) Vector() dynamo.State {
	return dynamo.State{
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		s.Rates.X, s.Rates.Y, s.Rates.Z,
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Attitude.Real, s.Attitude.Imag, s.Attitude.Jmag, s.Attitude.Kmag,
	}
}

func FromVector(x dynamo.State) State {
	return State{
		Velocity: r3.Vec{X: x[U], Y: x[V], Z: x[W]},
		Rates:    r3.Vec{X: x[P], Y: x[Q], Z: x[R]},
		Position: r3.Vec{X: x[X], Y: x[Y], Z: x[Z]},
		Attitude: quat.Number{Real: x[E0], Imag: x[EX], Jmag: x[EY], Kmag: x[EZ]},
	}
}

func (s State) Euler() frame.Euler { return frame.ToEuler(s.Attitude) }

func (s State) Airspeed() float64 { return r3.Norm(s.Velocity) }

func (s State) Altitude() float64 { return -s.Position.Z }

// InertialVelocity is the velocity over the ground in NED.
func (s State) InertialVelocity() r3.Vec { return frame.BodyToInertial(s.Attitude, s.Velocity) }

// Alpha is the body angle of attack.
func (s State) Alpha() float64 { return math.Atan2(s.Velocity.Z, s.Velocity.X) }

// Beta is the body sideslip angle.
func (s State) Beta() float64 {
	v := s.Airspeed()
	if v == 0 {
		return 0
	}
	return math.Asin(s.Velocity.Y / v)
}
