package control

import (
	"sync"

	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Source supplies the inputs for the next step. Compute is called once per
// step from the simulation goroutine.
type Source interface {
	Compute(s rigidbody.State, t float64) Inputs
}

// Constant holds the same inputs for the whole run.
type Constant Inputs

func (c Constant) Compute(rigidbody.State, float64) Inputs {
	return Inputs(c).Clone()
}

// Manual holds inputs set from another goroutine, such as a terminal UI
// reacting to key presses. The simulation picks up the latest values at
// the next step boundary.
type Manual struct {
	mu sync.Mutex
	in Inputs
}

func NewManual(initial Inputs) *Manual {
	return &Manual{in: initial.Clone()}
}

// Set replaces the command on one axis.
func (c *Manual) Set(axis int, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in[axis] = v
}

// Nudge adds delta to an axis, keeping the result within [lo, hi].
func (c *Manual) Nudge(axis int, delta, lo, hi float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.in[axis] = clamp(c.in[axis]+delta, lo, hi)
	return c.in[axis]
}

func (c *Manual) Get(axis int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in[axis]
}

func (c *Manual) Compute(rigidbody.State, float64) Inputs {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in.Clone()
}
