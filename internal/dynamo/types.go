package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the flat vector an Integrator advances.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	return s.FirstInvalid() < 0
}

// FirstInvalid returns the index of the first NaN or Inf entry, or -1.
func (s State) FirstInvalid() int {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

// Control is the input held constant across one integrator step.
type Control []float64

// System is an ODE right-hand side, dX/dt = f(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Name() string
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// ForceMoment is a body-frame force and a moment about the CG.
type ForceMoment struct {
	Force  r3.Vec
	Moment r3.Vec
}

func (fm ForceMoment) Add(o ForceMoment) ForceMoment {
	return ForceMoment{
		Force:  r3.Add(fm.Force, o.Force),
		Moment: r3.Add(fm.Moment, o.Moment),
	}
}

// Control packs the force and moment as [Fx Fy Fz Mx My Mz].
func (fm ForceMoment) Control() Control {
	return Control{fm.Force.X, fm.Force.Y, fm.Force.Z, fm.Moment.X, fm.Moment.Y, fm.Moment.Z}
}

func (fm ForceMoment) IsFinite() bool {
	return State(fm.Control()).IsValid()
}
