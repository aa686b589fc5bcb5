// Package automation scripts control inputs over time and runs batches of
// simulations: parameter sweeps and Monte Carlo dispersions.
package automation

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Scenario is a time-keyed input script. Each step moves one axis to a
// new value at a given time, either at once or over a linear ramp. Axes
// start at Base.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Base        control.Inputs `yaml:"base,omitempty"`
	Steps       []Step         `yaml:"steps"`
}

type Step struct {
	At    float64 `yaml:"at"`
	Axis  int     `yaml:"axis"`
	Value float64 `yaml:"value"`
	// Ramp is the time taken to reach Value, zero for a step change.
	Ramp float64 `yaml:"ramp,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	for i, st := range sc.Steps {
		if st.At < 0 {
			return fmt.Errorf("scenario %q step %d: negative time %g", sc.Name, i, st.At)
		}
		if st.Ramp < 0 {
			return fmt.Errorf("scenario %q step %d: negative ramp %g", sc.Name, i, st.Ramp)
		}
	}
	return nil
}

// Duration is the time at which the last step completes.
func (sc *Scenario) Duration() float64 {
	end := 0.0
	for _, st := range sc.Steps {
		end = max(end, st.At+st.Ramp)
	}
	return end
}

// Compute evaluates the script at t. Steps on the same axis apply in time
// order; a ramp starts from wherever the axis was when it began.
func (sc *Scenario) Compute(_ rigidbody.State, t float64) control.Inputs {
	in := sc.Base.Clone()
	for _, st := range sc.sorted() {
		if st.At > t {
			break
		}
		from := in[st.Axis]
		if st.Ramp > 0 && t < st.At+st.Ramp {
			in[st.Axis] = from + (st.Value-from)*(t-st.At)/st.Ramp
			continue
		}
		in[st.Axis] = st.Value
	}
	return in
}

func (sc *Scenario) sorted() []Step {
	steps := append([]Step(nil), sc.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	return steps
}

// Doublet is a symmetric pulse on one axis: +amplitude from start for
// width seconds, then -amplitude for width seconds, then back to base.
func Doublet(axis int, amplitude, start, width float64, base control.Inputs) *Scenario {
	return &Scenario{
		Name: "doublet",
		Base: base,
		Steps: []Step{
			{At: start, Axis: axis, Value: base[axis] + amplitude},
			{At: start + width, Axis: axis, Value: base[axis] - amplitude},
			{At: start + 2*width, Axis: axis, Value: base[axis]},
		},
	}
}
