package sim

import (
	"math"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Snapshot is a copy of everything produced by one step. Observers own the
// snapshot they are handed.
type Snapshot struct {
	Step  int
	Time  float64
	State rigidbody.State

	Inputs      control.Inputs
	Deflections control.Deflections
	Throttles   []float64

	Aero       dynamo.ForceMoment
	Propulsion dynamo.ForceMoment
	Gravity    dynamo.ForceMoment
	Total      dynamo.ForceMoment
}

func (s Snapshot) Clone() Snapshot {
	s.Inputs = s.Inputs.Clone()
	s.Deflections = control.Deflections{
		Right: append([]float64(nil), s.Deflections.Right...),
		Left:  append([]float64(nil), s.Deflections.Left...),
	}
	s.Throttles = append([]float64(nil), s.Throttles...)
	return s
}

// FlightData are the pilot-facing readouts derived from a state. Angles
// are in radians.
type FlightData struct {
	Airspeed  float64
	Alpha     float64
	Beta      float64
	Altitude  float64
	Roll      float64
	Pitch     float64
	Heading   float64
	ClimbRate float64
}

func (s Snapshot) Flight() FlightData {
	e := s.State.Euler()
	heading := math.Mod(e.Yaw, 2*math.Pi)
	if heading < 0 {
		heading += 2 * math.Pi
	}
	return FlightData{
		Airspeed:  s.State.Airspeed(),
		Alpha:     s.State.Alpha(),
		Beta:      s.State.Beta(),
		Altitude:  s.State.Altitude(),
		Roll:      e.Roll,
		Pitch:     e.Pitch,
		Heading:   heading,
		ClimbRate: -s.State.InertialVelocity().Z,
	}
}

func (f FlightData) Degrees() FlightData {
	f.Alpha = frame.Deg(f.Alpha)
	f.Beta = frame.Deg(f.Beta)
	f.Roll = frame.Deg(f.Roll)
	f.Pitch = frame.Deg(f.Pitch)
	f.Heading = frame.Deg(f.Heading)
	return f
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s *Snapshot)
	Value() float64
	Reset()
}

// Observer is called after every step from the simulation goroutine. It
// must not retain s past the call unless it copies it.
type Observer interface {
	OnStep(s *Snapshot)
}

type ObserverFunc func(s *Snapshot)

func (f ObserverFunc) OnStep(s *Snapshot) { f(s) }

// RunConfig controls a call to Run. Times are in seconds.
type RunConfig struct {
	Dt       float64
	Duration float64
	// RealTime paces steps to wall-clock time.
	RealTime bool
	// StopAtGround ends the run with ErrGroundContact when altitude drops
	// below zero.
	StopAtGround bool
	// Record keeps every state in the Result.
	Record bool
}

type Result struct {
	Times      []float64
	States     []rigidbody.State
	Metrics    map[string]float64
	StepsTaken int
	Final      Snapshot
	// Err is the error Run returned, kept for ensemble members.
	Err error
}
