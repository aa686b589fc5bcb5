package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

// MechanicalEnergy is kinetic (translational and rotational) plus
// potential energy relative to zero altitude.
func MechanicalEnergy(mp *rigidbody.MassProperties, gravity float64, s rigidbody.State) float64 {
	v := s.Velocity
	ke := 0.5 * mp.Mass * r3.Dot(v, v)
	ke += 0.5 * r3.Dot(s.Rates, mp.Apply(s.Rates))
	pe := mp.Mass * gravity * s.Altitude()
	return ke + pe
}

// Energy is the mean mechanical energy over a run.
type Energy struct {
	name        string
	mass        *rigidbody.MassProperties
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(mp *rigidbody.MassProperties, gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		mass:    mp,
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *sim.Snapshot) {
	e.totalEnergy += MechanicalEnergy(e.mass, e.gravity, s.State)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change in mechanical energy from the
// first observed step. It only means something for unpowered, drag-free
// checks such as a ballistic or torque-free run.
type EnergyDrift struct {
	name          string
	mass          *rigidbody.MassProperties
	gravity       float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(mp *rigidbody.MassProperties, gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		mass:    mp,
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *sim.Snapshot) {
	energy := MechanicalEnergy(e.mass, e.gravity, s.State)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
