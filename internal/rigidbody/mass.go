package rigidbody

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// MassProperties holds the mass, inertia tensor and its inverse. It is
// immutable and shared between simulators of the same aircraft.
type MassProperties struct {
	Mass    float64
	Inertia *mat.SymDense
	// H is constant internal angular momentum, e.g. from rotors.
	H r3.Vec

	i    *r3.Mat
	iInv *r3.Mat
}

func NewMassProperties(def *aircraft.Definition) (*MassProperties, error) {
	return newMassProperties(def.Mass(), def.Inertia.Matrix(), def.AngularMomentum)
}

func newMassProperties(mass float64, inertia *mat.SymDense, h r3.Vec) (*MassProperties, error) {
	if !(mass > 0) {
		return nil, dynamo.ConfigErrorf(dynamo.InvalidValue, "weight", "mass must be positive, got %g", mass)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(inertia); !ok {
		return nil, dynamo.ConfigErrorf(dynamo.InvalidInertia, "inertia", "tensor is not positive-definite")
	}
	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		return nil, dynamo.ConfigErrorf(dynamo.InvalidInertia, "inertia", "inverse failed: %v", err)
	}

	return &MassProperties{
		Mass:    mass,
		Inertia: inertia,
		H:       h,
		i:       r3.NewMat(mat.DenseCopyOf(inertia).RawMatrix().Data),
		iInv:    r3.NewMat(mat.DenseCopyOf(&inv).RawMatrix().Data),
	}, nil
}

// Apply returns I·w.
func (m *MassProperties) Apply(w r3.Vec) r3.Vec {
	return m.i.MulVec(w)
}

// Solve returns I⁻¹·v.
func (m *MassProperties) Solve(v r3.Vec) r3.Vec {
	return m.iInv.MulVec(v)
}
