package aircraft

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

type Units string

const (
	English Units = "English"
	SI      Units = "SI"
)

// Gravity returns the standard gravitational acceleration in the unit system.
func (u Units) Gravity() float64 {
	if u == SI {
		return 9.80665
	}
	return 32.174
}

// SeaLevelDensity returns the standard sea level air density in the unit system.
func (u Units) SeaLevelDensity() float64 {
	if u == SI {
		return 1.225
	}
	return 0.0023769
}

type Side int

const (
	Right Side = iota
	Left
	Both
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Both:
		return "both"
	default:
		return "right"
	}
}

type AttachPoint int

const (
	AttachRoot AttachPoint = iota
	AttachTip
)

type AirfoilType string

const (
	LinearAirfoil    AirfoilType = "linear"
	NonlinearAirfoil AirfoilType = "nonlinear"
)

type Clustering string

const (
	Uniform Clustering = "uniform"
	Cosine  Clustering = "cosine"
)

// AeroType selects the aerodynamic model implementation.
type AeroType string

const StripTheory AeroType = "strip"

// Definition is a validated aircraft. It is never mutated after Load and is
// safe to share between simulator instances.
type Definition struct {
	Name            string
	Units           Units
	CG              r3.Vec
	Weight          float64
	Inertia         Inertia
	AngularMomentum r3.Vec
	Reference       Reference
	Aero            AeroType
	Controls        []Control
	Engines         []Engine
	Airfoils        []AirfoilSpec
	Wings           []Wing
}

func (d *Definition) Mass() float64 {
	return d.Weight / d.Units.Gravity()
}

// Control returns the channel with the given name.
func (d *Definition) Control(name string) (Control, bool) {
	for _, c := range d.Controls {
		if c.Name == name {
			return c, true
		}
	}
	return Control{}, false
}

type Inertia struct {
	Ixx, Iyy, Izz float64
	Ixy, Ixz, Iyz float64
}

// Matrix returns the inertia tensor with the products of inertia negated
// off the diagonal.
func (in Inertia) Matrix() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		in.Ixx, -in.Ixy, -in.Ixz,
		-in.Ixy, in.Iyy, -in.Iyz,
		-in.Ixz, -in.Iyz, in.Izz,
	})
}

// PositiveDefinite reports whether the tensor admits a Cholesky factorization.
func (in Inertia) PositiveDefinite() bool {
	var chol mat.Cholesky
	return chol.Factorize(in.Matrix())
}

type Reference struct {
	Area               float64
	LongitudinalLength float64
	LateralLength      float64
}

// Control is one pilot or autopilot channel. MaxDeflection is in radians.
type Control struct {
	Name          string
	Axis          int
	MaxDeflection float64
	Symmetric     bool
}

// Engine thrust is (T0 + T1 V + T2 V²)·throttle^A along Direction.
type Engine struct {
	Name         string
	Control      string
	Position     r3.Vec
	Direction    r3.Vec
	T0, T1, T2   float64
	A            float64
	SpinMomentum r3.Vec
}

// AirfoilSpec carries either the linear coefficients or the alpha table,
// depending on Type. Coefficients are per radian.
type AirfoilSpec struct {
	Name string
	Type AirfoilType

	AL0, CLa, CmL0, Cma float64
	CD0, CD1, CD2       float64
	KDeflection         float64
	HasKDeflection      bool

	Alpha      []float64
	CL, CD, Cm []float64
	DCLdDelta  float64
	HasDCL     bool
	DCmdDelta  float64
}

type Wing struct {
	ID       int
	Name     string
	Side     Side
	IsMain   bool
	Semispan float64

	HasParent bool
	ParentID  int
	Attach    AttachPoint
	Offset    r3.Vec

	// Angles in radians, indexed by span fraction.
	Chord    Table
	Sweep    Table
	Dihedral Table
	Twist    Table

	Airfoil string
	Surface *ControlSurface
	Grid    Grid
}

// Label identifies the wing in messages.
func (w *Wing) Label() string {
	if w.Name != "" {
		return w.Name
	}
	return "wing " + itoa(w.ID)
}

// ControlSurface spans [RootSpan, TipSpan] of its wing.
type ControlSurface struct {
	ChordFraction float64
	RootSpan      float64
	TipSpan       float64
	Mixing        map[string]float64
}

// Channels returns the mixing keys in a fixed order.
func (cs *ControlSurface) Channels() []string {
	names := make([]string, 0, len(cs.Mixing))
	for n := range cs.Mixing {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (cs *ControlSurface) Contains(eta float64) bool {
	return eta >= cs.RootSpan && eta <= cs.TipSpan
}

type Grid struct {
	N             int
	Clustering    Clustering
	ClusterPoints []float64
}
