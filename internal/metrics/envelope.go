package metrics

import (
	"math"

	"github.com/san-kum/flightsim/internal/sim"
)

// Envelope is the fraction of steps flown inside an angle-of-attack and
// bank limit. Limits are in radians.
type Envelope struct {
	name       string
	maxAlpha   float64
	maxBank    float64
	violations int
	samples    int
}

func NewEnvelope(maxAlpha, maxBank float64) *Envelope {
	return &Envelope{
		name:     "envelope",
		maxAlpha: maxAlpha,
		maxBank:  maxBank,
	}
}

func (e *Envelope) Name() string {
	return e.name
}

func (e *Envelope) Observe(s *sim.Snapshot) {
	e.samples++
	fd := s.Flight()
	if math.Abs(fd.Alpha) > e.maxAlpha || math.Abs(fd.Roll) > e.maxBank {
		e.violations++
	}
}

func (e *Envelope) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Envelope) Reset() {
	e.violations = 0
	e.samples = 0
}

// QuaternionDrift is the largest departure of the attitude norm from one.
type QuaternionDrift struct {
	max float64
}

func NewQuaternionDrift() *QuaternionDrift { return &QuaternionDrift{} }

func (q *QuaternionDrift) Name() string { return "quaternion_drift" }

func (q *QuaternionDrift) Observe(s *sim.Snapshot) {
	a := s.State.Attitude
	norm := math.Sqrt(a.Real*a.Real + a.Imag*a.Imag + a.Jmag*a.Jmag + a.Kmag*a.Kmag)
	q.max = math.Max(q.max, math.Abs(norm-1))
}

func (q *QuaternionDrift) Value() float64 { return q.max }
func (q *QuaternionDrift) Reset()         { q.max = 0 }
