package aircraft

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// document mirrors the on-disk aircraft file. Pointer fields distinguish
// "absent" from zero so required fields can be reported.
type document struct {
	Name            string       `yaml:"name"`
	Units           string       `yaml:"units"`
	CG              [3]float64   `yaml:"cg"`
	Weight          *float64     `yaml:"weight"`
	Inertia         *inertiaDoc  `yaml:"inertia"`
	AngularMomentum [3]float64   `yaml:"angular_momentum"`
	Reference       referenceDoc `yaml:"reference"`
	Aero            aeroDoc      `yaml:"aero"`
	Controls        []controlDoc `yaml:"controls"`
	Engines         []engineDoc  `yaml:"engines"`
	Airfoils        []airfoilDoc `yaml:"airfoils"`
	Wings           []wingDoc    `yaml:"wings"`
}

type inertiaDoc struct {
	Ixx float64 `yaml:"Ixx"`
	Iyy float64 `yaml:"Iyy"`
	Izz float64 `yaml:"Izz"`
	Ixy float64 `yaml:"Ixy"`
	Ixz float64 `yaml:"Ixz"`
	Iyz float64 `yaml:"Iyz"`
}

type referenceDoc struct {
	Area               float64 `yaml:"area"`
	LongitudinalLength float64 `yaml:"longitudinal_length"`
	LateralLength      float64 `yaml:"lateral_length"`
}

type aeroDoc struct {
	Type string `yaml:"type"`
}

type controlDoc struct {
	Name          string  `yaml:"name"`
	Axis          *int    `yaml:"axis"`
	MaxDeflection float64 `yaml:"max_deflection"`
	Symmetric     bool    `yaml:"symmetric"`
}

type engineDoc struct {
	Name         string      `yaml:"name"`
	Control      string      `yaml:"control"`
	Position     [3]float64  `yaml:"position"`
	Direction    *[3]float64 `yaml:"direction"`
	T0           float64     `yaml:"T0"`
	T1           float64     `yaml:"T1"`
	T2           float64     `yaml:"T2"`
	A            *float64    `yaml:"a"`
	SpinMomentum [3]float64  `yaml:"spin_angular_momentum"`
}

type airfoilDoc struct {
	Name        string    `yaml:"name"`
	Type        string    `yaml:"type"`
	AL0         float64   `yaml:"aL0"`
	CLa         float64   `yaml:"CLa"`
	CmL0        float64   `yaml:"CmL0"`
	Cma         float64   `yaml:"Cma"`
	CD0         float64   `yaml:"CD0"`
	CD1         float64   `yaml:"CD1"`
	CD2         float64   `yaml:"CD2"`
	KDeflection *float64  `yaml:"k_deflection"`
	Alpha       []float64 `yaml:"alpha"`
	CL          []float64 `yaml:"CL"`
	CD          []float64 `yaml:"CD"`
	Cm          []float64 `yaml:"Cm"`
	DCLdDelta   *float64  `yaml:"dCL_ddelta"`
	DCmdDelta   float64   `yaml:"dCm_ddelta"`
}

type wingDoc struct {
	ID             *int          `yaml:"id"`
	Name           string        `yaml:"name"`
	Side           string        `yaml:"side"`
	IsMain         bool          `yaml:"is_main"`
	Semispan       *float64      `yaml:"semispan"`
	Connect        *connectDoc   `yaml:"connect"`
	Chord          *Distribution `yaml:"chord"`
	Sweep          *Distribution `yaml:"sweep"`
	Dihedral       *Distribution `yaml:"dihedral"`
	Twist          *Distribution `yaml:"twist"`
	Airfoil        string        `yaml:"airfoil"`
	ControlSurface *surfaceDoc   `yaml:"control_surface"`
	Grid           gridDoc       `yaml:"grid"`
}

type connectDoc struct {
	ID       *int    `yaml:"id"`
	Location string  `yaml:"location"`
	DX       float64 `yaml:"dx"`
	DY       float64 `yaml:"dy"`
	DZ       float64 `yaml:"dz"`
}

type surfaceDoc struct {
	ChordFraction float64            `yaml:"chord_fraction"`
	RootSpan      float64            `yaml:"root_span"`
	TipSpan       *float64           `yaml:"tip_span"`
	Mixing        map[string]float64 `yaml:"mixing"`
}

type gridDoc struct {
	N             *int      `yaml:"N"`
	Clustering    string    `yaml:"clustering"`
	ClusterPoints []float64 `yaml:"cluster_points"`
}

// Distribution is a spanwise table written either as a single number or as
// a list of [span_fraction, value] pairs.
type Distribution struct {
	Points [][2]float64
}

func (d *Distribution) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		d.Points = [][2]float64{{0, v}}
		return nil
	case yaml.SequenceNode:
		return n.Decode(&d.Points)
	default:
		return fmt.Errorf("line %d: expected a number or a list of [span, value] pairs", n.Line)
	}
}
