package metrics

import (
	"math"

	"github.com/san-kum/flightsim/internal/sim"
)

// ControlEffort is the mean over steps of the summed absolute surface
// deflection, in radians.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s *sim.Snapshot) {
	for i := range s.Deflections.Right {
		c.sum += math.Abs(s.Deflections.Right[i]) + math.Abs(s.Deflections.Left[i])
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// Default is the metric set attached to every CLI run.
func Default(model *sim.Model) []sim.Metric {
	g := model.Def.Units.Gravity()
	return []sim.Metric{
		NewEnergy(model.Mass, g),
		NewEnergyDrift(model.Mass, g),
		NewEnvelope(15*math.Pi/180, 60*math.Pi/180),
		NewControlEffort(),
		NewQuaternionDrift(),
	}
}
