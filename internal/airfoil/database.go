package airfoil

import (
	"sort"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// Database maps airfoil names to providers. It has no mutable state after
// NewDatabase returns.
type Database struct {
	specs map[string]aircraft.AirfoilSpec
	foils map[string]Airfoil
}

func NewDatabase(specs []aircraft.AirfoilSpec) (*Database, error) {
	db := &Database{
		specs: make(map[string]aircraft.AirfoilSpec, len(specs)),
		foils: make(map[string]Airfoil, len(specs)),
	}
	for _, s := range specs {
		if _, dup := db.foils[s.Name]; dup {
			return nil, dynamo.ConfigErrorf(dynamo.DuplicateID, "airfoils / "+s.Name, "airfoil declared twice")
		}
		a, err := New(s)
		if err != nil {
			return nil, err
		}
		db.specs[s.Name] = s
		db.foils[s.Name] = a
	}
	return db, nil
}

// Lookup returns the provider for name. Unknown names are a configuration
// error; evaluation code only ever sees resolved providers.
func (db *Database) Lookup(name string) (Airfoil, error) {
	a, ok := db.foils[name]
	if !ok {
		return nil, dynamo.ConfigErrorf(dynamo.UnknownAirfoil, "airfoils / "+name, "airfoil %q is not declared", name)
	}
	return a, nil
}

// Pair returns the provider for name bound to a control surface of the
// given chord fraction. An explicit k_deflection (or dCL_ddelta) wins;
// otherwise k is the lift slope scaled by FlapEffectiveness.
func (db *Database) Pair(name string, chordFraction float64) (Airfoil, error) {
	a, err := db.Lookup(name)
	if err != nil {
		return nil, err
	}
	spec := db.specs[name]
	eps := FlapEffectiveness(chordFraction)

	switch v := a.(type) {
	case *Linear:
		paired := *v
		if !spec.HasKDeflection {
			paired.K = v.CLa * eps
		}
		return &paired, nil
	case *Tabulated:
		paired := *v
		if !spec.HasDCL {
			paired.K = v.CL.Slope(0) * eps
		}
		return &paired, nil
	}
	return a, nil
}

func (db *Database) Names() []string {
	names := make([]string, 0, len(db.foils))
	for n := range db.foils {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
