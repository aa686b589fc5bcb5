package sim

import (
	"fmt"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/airfoil"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/geometry"
	"github.com/san-kum/flightsim/internal/propulsion"
	"github.com/san-kum/flightsim/internal/rigidbody"
)

// Model is everything derived from an aircraft definition that does not
// change during a run. It is immutable and shared by every Simulator built
// from it.
type Model struct {
	Def        *aircraft.Definition
	Airfoils   *airfoil.Database
	Geometry   *geometry.Geometry
	Mixing     *control.Table
	Mass       *rigidbody.MassProperties
	Propulsion *propulsion.Model
}

// Build resolves a validated definition. Any configuration error is
// returned before a simulator can be created.
func Build(def *aircraft.Definition) (*Model, error) {
	db, err := airfoil.NewDatabase(def.Airfoils)
	if err != nil {
		return nil, fmt.Errorf("airfoils: %w", err)
	}
	geo, err := geometry.Resolve(def, db)
	if err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}
	mp, err := rigidbody.NewMassProperties(def)
	if err != nil {
		return nil, fmt.Errorf("mass properties: %w", err)
	}
	return &Model{
		Def:        def,
		Airfoils:   db,
		Geometry:   geo,
		Mixing:     control.NewTable(def),
		Mass:       mp,
		Propulsion: propulsion.New(def),
	}, nil
}

func Load(path string) (*Model, error) {
	def, err := aircraft.Load(path)
	if err != nil {
		return nil, err
	}
	return Build(def)
}
