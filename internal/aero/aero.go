// Package aero evaluates aerodynamic forces and moments on the resolved
// wing stations.
package aero

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/geometry"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Model evaluates the total aerodynamic load about the CG in the body
// frame. Implementations may keep scratch space, so one Model serves one
// simulator.
type Model interface {
	Name() string
	Evaluate(s rigidbody.State, defl control.Deflections) dynamo.ForceMoment
}

// Options configures a model instance.
type Options struct {
	Density float64
	// Workers bounds the goroutines used per evaluation; <= 0 uses
	// GOMAXPROCS.
	Workers int
}

// New builds the model selected by the aircraft definition.
func New(def *aircraft.Definition, geo *geometry.Geometry, opts Options) (Model, error) {
	switch def.Aero {
	case aircraft.StripTheory, "":
		return NewStripModel(geo, def.CG, opts), nil
	default:
		return nil, dynamo.ConfigErrorf(dynamo.InvalidValue, "aero / type", "unknown aerodynamic model %q", def.Aero)
	}
}

// StationLoad is the evaluated state of one station.
type StationLoad struct {
	Alpha           float64
	Beta            float64
	DynamicPressure float64
	Deflection      float64
	CL, CD, Cm      float64
	Force           r3.Vec
	Moment          r3.Vec
}

// StripModel is linear strip theory: each station is an independent 2D
// section in its local flow, and the loads are summed with the midpoint
// rule (strip area chord·Δs).
type StripModel struct {
	geo      *geometry.Geometry
	cg       r3.Vec
	rho      float64
	workers  int
	minChunk int
	loads    []StationLoad
}

func NewStripModel(geo *geometry.Geometry, cg r3.Vec, opts Options) *StripModel {
	return &StripModel{
		geo:      geo,
		cg:       cg,
		rho:      opts.Density,
		workers:  opts.Workers,
		minChunk: 16,
		loads:    make([]StationLoad, len(geo.Stations)),
	}
}

func (m *StripModel) Name() string { return string(aircraft.StripTheory) }

// Loads returns the per-station results of the last evaluation. The slice
// is reused by the next Evaluate.
func (m *StripModel) Loads() []StationLoad { return m.loads }

// Evaluate computes every station concurrently into its own slot and then
// sums the slots in station order, so the result does not depend on the
// worker count.
func (m *StripModel) Evaluate(s rigidbody.State, defl control.Deflections) dynamo.ForceMoment {
	stations := m.geo.Stations
	dynamo.ParallelFor(len(stations), m.workers, m.minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			m.loads[i] = m.station(&stations[i], s, defl)
		}
	})

	var total dynamo.ForceMoment
	for i := range m.loads {
		total.Force = r3.Add(total.Force, m.loads[i].Force)
		total.Moment = r3.Add(total.Moment, m.loads[i].Moment)
	}
	return total
}

func (m *StripModel) station(st *geometry.Station, s rigidbody.State, defl control.Deflections) StationLoad {
	r := r3.Sub(st.Position, m.cg)
	v := r3.Add(s.Velocity, r3.Cross(s.Rates, r))

	vc := r3.Dot(v, st.C)
	vn := r3.Dot(v, st.N)
	vs := r3.Dot(v, st.S)

	alpha := math.Atan2(-vn, vc)
	inPlane := vc*vc + vn*vn
	beta := math.Atan2(vs, math.Sqrt(inPlane))
	q := 0.5 * m.rho * inPlane

	delta := 0.0
	if st.Controlled {
		delta = defl.Side(st.Wing, st.Side)
	}
	cl, cd, cm := st.Airfoil.Coefficients(alpha+st.Twist, delta)

	sa, ca := math.Sin(alpha), math.Cos(alpha)
	lift := r3.Add(r3.Scale(sa, st.C), r3.Scale(ca, st.N))
	drag := r3.Sub(r3.Scale(ca, st.C), r3.Scale(sa, st.N))

	qa := q * st.Area()
	f := r3.Scale(qa, r3.Sub(r3.Scale(cl, lift), r3.Scale(cd, drag)))
	pitch := r3.Scale(qa*st.Chord*cm, r3.Cross(st.C, st.N))

	return StationLoad{
		Alpha:           alpha,
		Beta:            beta,
		DynamicPressure: q,
		Deflection:      delta,
		CL:              cl,
		CD:              cd,
		Cm:              cm,
		Force:           f,
		Moment:          r3.Add(r3.Cross(r, f), pitch),
	}
}

func (l StationLoad) String() string {
	return fmt.Sprintf("α=%.3f° q=%.3f CL=%.4f CD=%.4f Cm=%.4f", l.Alpha*180/math.Pi, l.DynamicPressure, l.CL, l.CD, l.Cm)
}
