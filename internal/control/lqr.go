package control

import (
	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Feedback is the reduced state an LQR regulates:
// [roll pitch yaw p q r airspeed alpha beta].
func Feedback(s rigidbody.State) []float64 {
	e := s.Euler()
	return []float64{e.Roll, e.Pitch, e.Yaw, s.Rates.X, s.Rates.Y, s.Rates.Z, s.Airspeed(), s.Alpha(), s.Beta()}
}

// LQR applies u = -K(y - target) to the feedback vector y. Row i of K
// drives Axes[i]; other axes come from Base.
type LQR struct {
	K      [][]float64
	Target []float64
	Axes   []int
	Base   Source
}

func NewLQR(k [][]float64, target []float64, axes []int, base Source) *LQR {
	return &LQR{K: k, Target: target, Axes: axes, Base: base}
}

func (l *LQR) Compute(s rigidbody.State, t float64) Inputs {
	var in Inputs
	if l.Base != nil {
		in = l.Base.Compute(s, t)
	} else {
		in = Inputs{}
	}

	y := Feedback(s)
	for i, axis := range l.Axes {
		u := 0.0
		for j := range y {
			target := 0.0
			if j < len(l.Target) {
				target = l.Target[j]
			}
			if j < len(l.K[i]) {
				u -= l.K[i][j] * (y[j] - target)
			}
		}
		in[axis] = clamp(u, -1, 1)
	}
	return in
}

// Positive aileron raises the right wing's lift and rolls left, so the
// gains on roll and roll rate are negative.
var wingLevelerGains = [][]float64{{-1.5, 0, 0, -0.4}}

// NewWingLeveler holds wings level on the given aileron axis.
func NewWingLeveler(aileronAxis int, base Source) *LQR {
	return NewLQR(wingLevelerGains, nil, []int{aileronAxis}, base)
}
