package control

import (
	"math"

	"github.com/san-kum/flightsim/internal/rigidbody"
)

// PID is a parallel-form controller with the derivative taken on the
// measurement, so a step in Target does not kick the output.
type PID struct {
	Kp, Ki, Kd float64
	Target     float64
	// IntegralLimit bounds |Ki·∫e dt|. Zero leaves it unbounded.
	IntegralLimit float64

	integral float64
	prevMeas float64
	prevT    float64
	primed   bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target, IntegralLimit: 1}
}

// Update returns the controller output for a new measurement at time t.
// The first call, and any call that does not advance t, is proportional
// only.
func (p *PID) Update(measured, t float64) float64 {
	err := p.Target - measured
	if !p.primed {
		p.prevMeas, p.prevT, p.primed = measured, t, true
		return p.Kp * err
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.Kp*err + p.Ki*p.integral
	}
	p.integral += err * dt
	if p.IntegralLimit > 0 && p.Ki != 0 {
		bound := p.IntegralLimit / math.Abs(p.Ki)
		p.integral = clamp(p.integral, -bound, bound)
	}
	rate := (measured - p.prevMeas) / dt
	p.prevMeas, p.prevT = measured, t

	return p.Kp*err + p.Ki*p.integral - p.Kd*rate
}

// PitchHold is an autopilot that drives one axis (normally the elevator)
// to hold a pitch attitude in radians. Other axes come from Base.
type PitchHold struct {
	PID  *PID
	Axis int
	Base Source
	// Sign maps a nose-up demand onto the axis. It is -1 by default since
	// positive elevator deflects the trailing edge down.
	Sign float64
}

func NewPitchHold(pid *PID, axis int, base Source) *PitchHold {
	return &PitchHold{PID: pid, Axis: axis, Base: base, Sign: -1}
}

func (h *PitchHold) Compute(s rigidbody.State, t float64) Inputs {
	var in Inputs
	if h.Base != nil {
		in = h.Base.Compute(s, t)
	} else {
		in = Inputs{}
	}
	in[h.Axis] = clamp(h.Sign*h.PID.Update(s.Euler().Pitch, t), -1, 1)
	return in
}
