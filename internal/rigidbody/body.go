package rigidbody

import (
	"github.com/san-kum/flightsim/internal/dynamo"
)

// Body owns one aircraft's state and advances it. It is not safe for
// concurrent use; callers publish snapshots instead of sharing a Body.
type Body struct {
	dyn   *Dynamics
	integ dynamo.Integrator
	x     dynamo.State
	t     float64
	steps int
	err   error
}

func NewBody(mp *MassProperties, integ dynamo.Integrator, initial State, t0 float64) *Body {
	x := initial.Vector()
	normalizeAttitude(x)
	return &Body{
		dyn:   &Dynamics{Mass: mp},
		integ: integ,
		x:     x,
		t:     t0,
	}
}

func (b *Body) State() State         { return FromVector(b.x) }
func (b *Body) Vector() dynamo.State { return b.x.Clone() }
func (b *Body) Time() float64        { return b.t }
func (b *Body) Steps() int           { return b.steps }
func (b *Body) Dynamics() *Dynamics  { return b.dyn }

// Err returns the error that halted the body, if any.
func (b *Body) Err() error { return b.err }

// Step advances the state by dt with fm held constant. The attitude is
// renormalized afterwards. A non-finite result leaves the previous state in
// place and halts the body: this and every later call return a
// *dynamo.NumericalError.
func (b *Body) Step(fm dynamo.ForceMoment, dt float64) error {
	if b.err != nil {
		return b.err
	}

	next := b.integ.Step(b.dyn, b.x, fm.Control(), b.t, dt)
	if i := next.FirstInvalid(); i >= 0 {
		b.err = &dynamo.NumericalError{
			Step:    b.steps + 1,
			Time:    b.t + dt,
			Field:   FieldName(i),
			State:   b.x.Clone(),
			Wrapped: dynamo.ErrNonFinite,
		}
		return b.err
	}
	normalizeAttitude(next)

	b.x = next
	b.t += dt
	b.steps++
	return nil
}
