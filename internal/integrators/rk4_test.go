package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/flightsim/internal/dynamo"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int   { return 2 }
func (s *simpleDynamics) ControlDim() int { return 0 }

// forcedDynamics is a unit mass pushed by a constant force taken from u.
type forcedDynamics struct{}

func (f *forcedDynamics) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], u[0]}
}

func (f *forcedDynamics) StateDim() int   { return 2 }
func (f *forcedDynamics) ControlDim() int { return 1 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x0 := dynamo.State{1.0, 0.0}
	u := dynamo.Control{}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, u, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestConstantForce(t *testing.T) {
	tests := []struct {
		name  string
		integ dynamo.Integrator
		tol   float64
	}{
		{"rk4", NewRK4(), 1e-12},
		{"euler", NewEuler(), 0.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := dynamo.State{0, 0}
			u := dynamo.Control{2.0}
			dt := 0.01
			for i := 0; i < 100; i++ {
				x = tt.integ.Step(&forcedDynamics{}, x, u, float64(i)*dt, dt)
			}
			// x = a t^2 / 2 with a = 2, t = 1
			if math.Abs(x[0]-1.0) > tt.tol {
				t.Errorf("position: got %.8f, want 1.0", x[0])
			}
			if math.Abs(x[1]-2.0) > 1e-9 {
				t.Errorf("velocity: got %.8f, want 2.0", x[1])
			}
		})
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	x := dynamo.State{1.0, 0.5}
	orig := x.Clone()
	NewRK4().Step(&simpleDynamics{}, x, nil, 0, 0.1)
	NewEuler().Step(&simpleDynamics{}, x, nil, 0, 0.1)
	for i := range x {
		if x[i] != orig[i] {
			t.Fatalf("input state modified at %d: %v -> %v", i, orig[i], x[i])
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		a, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		b, _ := New(name)
		if a.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, a.Name())
		}
		if name == "rk4" && a == b {
			t.Errorf("New(%q) returned a shared instance", name)
		}
	}

	def, err := New("")
	if err != nil || def.Name() != Default {
		t.Errorf("New(\"\") = %v, %v", def, err)
	}
	if _, err := New("verlet"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
