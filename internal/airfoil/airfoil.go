// Package airfoil provides section coefficient lookups keyed by airfoil
// name. Providers are immutable and safe for concurrent use.
package airfoil

import (
	"fmt"
	"math"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// Airfoil returns section lift, drag and moment coefficients for an angle of
// attack and a control deflection, both in radians.
type Airfoil interface {
	Name() string
	Coefficients(alpha, deflection float64) (cl, cd, cm float64)
}

// Linear is the thin-airfoil model:
//
//	CL = CLa(α - aL0) + kδ
//	CD = CD0 + CD1 CL + CD2 CL²
//	Cm = CmL0 + Cma α
type Linear struct {
	ID                  string
	AL0, CLa, CmL0, Cma float64
	CD0, CD1, CD2       float64
	K                   float64
}

func (l *Linear) Name() string { return l.ID }

func (l *Linear) Coefficients(alpha, deflection float64) (cl, cd, cm float64) {
	cl = l.CLa*(alpha-l.AL0) + l.K*deflection
	cd = l.CD0 + l.CD1*cl + l.CD2*cl*cl
	cm = l.CmL0 + l.Cma*alpha
	return cl, cd, cm
}

// Tabulated interpolates CL, CD and Cm against alpha, holding the end
// values outside the table. Deflection shifts CL by K·δ and Cm by KM·δ.
type Tabulated struct {
	ID string
	CL aircraft.Table
	CD aircraft.Table
	Cm aircraft.Table
	K  float64
	KM float64
}

func (t *Tabulated) Name() string { return t.ID }

func (t *Tabulated) Coefficients(alpha, deflection float64) (cl, cd, cm float64) {
	cl = t.CL.At(alpha) + t.K*deflection
	cd = t.CD.At(alpha)
	cm = t.Cm.At(alpha) + t.KM*deflection
	return cl, cd, cm
}

// FlapEffectiveness is the thin-airfoil estimate of the fraction of the
// lift slope recovered by a plain flap of chord fraction cf.
func FlapEffectiveness(cf float64) float64 {
	if cf >= 1 {
		return 1
	}
	if cf <= 0 {
		return 0
	}
	thetaF := math.Acos(2*cf - 1)
	return 1 - (thetaF-math.Sin(thetaF))/math.Pi
}

// New builds the provider for one airfoil definition.
func New(spec aircraft.AirfoilSpec) (Airfoil, error) {
	switch spec.Type {
	case aircraft.LinearAirfoil:
		return &Linear{
			ID:   spec.Name,
			AL0:  spec.AL0,
			CLa:  spec.CLa,
			CmL0: spec.CmL0,
			Cma:  spec.Cma,
			CD0:  spec.CD0,
			CD1:  spec.CD1,
			CD2:  spec.CD2,
			K:    spec.KDeflection,
		}, nil
	case aircraft.NonlinearAirfoil:
		return &Tabulated{
			ID: spec.Name,
			CL: aircraft.Table{X: spec.Alpha, Y: spec.CL},
			CD: aircraft.Table{X: spec.Alpha, Y: spec.CD},
			Cm: aircraft.Table{X: spec.Alpha, Y: spec.Cm},
			K:  spec.DCLdDelta,
			KM: spec.DCmdDelta,
		}, nil
	default:
		return nil, dynamo.ConfigErrorf(dynamo.InvalidValue, "airfoils / "+spec.Name, "unknown airfoil type %q", spec.Type)
	}
}

func (l *Linear) String() string {
	return fmt.Sprintf("%s: linear CLa=%.4f aL0=%.4f", l.ID, l.CLa, l.AL0)
}
