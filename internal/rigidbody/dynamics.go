package rigidbody

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/frame"
)

// Dynamics is the 6DOF rigid-body right-hand side. The control vector is
// the net body-frame force and moment about the CG, [Fx Fy Fz Mx My Mz].
type Dynamics struct {
	Mass *MassProperties
}

func (d *Dynamics) StateDim() int   { return StateDim }
func (d *Dynamics) ControlDim() int { return 6 }

func (d *Dynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	s := FromVector(x)
	force := r3.Vec{X: u[0], Y: u[1], Z: u[2]}
	moment := r3.Vec{X: u[3], Y: u[4], Z: u[5]}

	acc := d.LinearAcceleration(s, force)
	alpha := d.AngularAcceleration(s, moment)
	vel := frame.BodyToInertial(s.Attitude, s.Velocity)
	qdot := frame.Rate(s.Attitude, s.Rates)

	return dynamo.State{
		acc.X, acc.Y, acc.Z,
		alpha.X, alpha.Y, alpha.Z,
		vel.X, vel.Y, vel.Z,
		qdot.Real, qdot.Imag, qdot.Jmag, qdot.Kmag,
	}
}

// LinearAcceleration is F/m - ω×v in the body frame.
func (d *Dynamics) LinearAcceleration(s State, force r3.Vec) r3.Vec {
	return r3.Sub(r3.Scale(1/d.Mass.Mass, force), r3.Cross(s.Rates, s.Velocity))
}

// AngularAcceleration is I⁻¹(M - ω×(Iω + h)).
func (d *Dynamics) AngularAcceleration(s State, moment r3.Vec) r3.Vec {
	h := r3.Add(d.Mass.Apply(s.Rates), d.Mass.H)
	return d.Mass.Solve(r3.Sub(moment, r3.Cross(s.Rates, h)))
}

var _ dynamo.System = (*Dynamics)(nil)

func normalizeAttitude(x dynamo.State) {
	q := quat.Number{Real: x[E0], Imag: x[EX], Jmag: x[EY], Kmag: x[EZ]}
	q = frame.Normalize(q)
	x[E0], x[EX], x[EY], x[EZ] = q.Real, q.Imag, q.Jmag, q.Kmag
}
