// Package geometry resolves the wing attachment tree and discretizes every
// wing into spanwise stations.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/airfoil"
	"github.com/san-kum/flightsim/internal/dynamo"
)

// Station is one spanwise strip. Vectors are in the body frame; C points
// forward along the chord, S outboard along the span and N normal to the
// upper surface.
type Station struct {
	Wing  int
	Side  aircraft.Side
	Index int
	Eta   float64

	Position r3.Vec
	Chord    float64
	Width    float64
	Twist    float64
	Sweep    float64
	Dihedral float64

	C, S, N r3.Vec

	Airfoil airfoil.Airfoil
	// Controlled is set when the station lies inside the wing's control
	// surface span.
	Controlled bool
}

// Area is the strip planform area chord·Δs.
func (s *Station) Area() float64 { return s.Chord * s.Width }

// WingGeometry is the resolved placement of one wing. Root and Tip are the
// right-side quarter-chord endpoints.
type WingGeometry struct {
	Wing *aircraft.Wing
	Root r3.Vec
	Tip  r3.Vec
	// First and Count index Geometry.Stations.
	First int
	Count int
}

// Geometry is immutable once Resolve returns and may be shared between
// simulators.
type Geometry struct {
	Wings    []WingGeometry
	Stations []Station
}

// Resolve places every wing by walking the attachment tree from its roots
// and discretizes each wing. Stations are ordered by wing declaration, then
// the right side outboard, then the left side outboard.
func Resolve(def *aircraft.Definition, db *airfoil.Database) (*Geometry, error) {
	order, err := attachmentOrder(def.Wings)
	if err != nil {
		return nil, err
	}

	geo := &Geometry{Wings: make([]WingGeometry, len(def.Wings))}
	byID := make(map[int]int, len(def.Wings))
	for i := range def.Wings {
		byID[def.Wings[i].ID] = i
		geo.Wings[i].Wing = &def.Wings[i]
	}

	right := make([][]Station, len(def.Wings))
	for _, i := range order {
		w := &def.Wings[i]
		root := w.Offset
		if w.HasParent {
			parent := geo.Wings[byID[w.ParentID]]
			base := parent.Root
			if w.Attach == aircraft.AttachTip {
				base = parent.Tip
			}
			root = r3.Add(base, w.Offset)
		}

		stations, tip, err := discretize(i, w, root, db)
		if err != nil {
			return nil, err
		}
		geo.Wings[i].Root, geo.Wings[i].Tip = root, tip
		right[i] = stations
	}

	for i := range def.Wings {
		w := &def.Wings[i]
		geo.Wings[i].First = len(geo.Stations)
		if w.Side == aircraft.Right || w.Side == aircraft.Both {
			geo.Stations = append(geo.Stations, right[i]...)
		}
		if w.Side == aircraft.Left || w.Side == aircraft.Both {
			for _, s := range right[i] {
				geo.Stations = append(geo.Stations, mirror(s))
			}
		}
		geo.Wings[i].Count = len(geo.Stations) - geo.Wings[i].First
	}
	return geo, nil
}

// attachmentOrder returns wing indices parents-first. Roots keep their
// declaration order.
func attachmentOrder(wings []aircraft.Wing) ([]int, error) {
	byID := make(map[int]int, len(wings))
	for i, w := range wings {
		byID[w.ID] = i
	}

	var errs dynamo.ConfigurationErrors
	children := make(map[int][]int)
	var queue []int
	for i, w := range wings {
		if !w.HasParent {
			queue = append(queue, i)
			continue
		}
		p, ok := byID[w.ParentID]
		if !ok {
			errs = append(errs, dynamo.ConfigErrorf(dynamo.DanglingAttachment, wingPath(i, w),
				"parent wing %d does not exist", w.ParentID))
			continue
		}
		children[p] = append(children[p], i)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	order := make([]int, 0, len(wings))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		queue = append(queue, children[i]...)
	}

	if len(order) != len(wings) {
		placed := make([]bool, len(wings))
		for _, i := range order {
			placed[i] = true
		}
		for i, w := range wings {
			if !placed[i] {
				errs = append(errs, dynamo.ConfigErrorf(dynamo.AttachmentCycle, wingPath(i, w),
					"attachment to wing %d forms a cycle", w.ParentID))
			}
		}
		return nil, errs
	}
	return order, nil
}

func wingPath(i int, w aircraft.Wing) string {
	return fmt.Sprintf("wings[%d] (id %d) / connect", i, w.ID)
}

// discretize builds the right-side stations by integrating the
// quarter-chord line outward from root with the midpoint rule. It returns
// the stations and the tip position.
func discretize(wi int, w *aircraft.Wing, root r3.Vec, db *airfoil.Database) ([]Station, r3.Vec, error) {
	plain, err := db.Lookup(w.Airfoil)
	if err != nil {
		return nil, r3.Vec{}, err
	}
	var paired airfoil.Airfoil
	if w.Surface != nil {
		paired, err = db.Pair(w.Airfoil, w.Surface.ChordFraction)
		if err != nil {
			return nil, r3.Vec{}, err
		}
	}

	edges := PanelEdges(w.Grid)
	stations := make([]Station, len(edges)-1)
	pos := root
	for i := range stations {
		eta := (edges[i] + edges[i+1]) / 2
		ds := (edges[i+1] - edges[i]) * w.Semispan
		sweep := w.Sweep.At(eta)
		gamma := w.Dihedral.At(eta)

		dp := r3.Scale(ds, r3.Vec{X: -math.Tan(sweep), Y: math.Cos(gamma), Z: -math.Sin(gamma)})

		s := Station{
			Wing:     wi,
			Side:     aircraft.Right,
			Index:    i,
			Eta:      eta,
			Position: r3.Add(pos, r3.Scale(0.5, dp)),
			Chord:    w.Chord.At(eta),
			Width:    ds,
			Twist:    w.Twist.At(eta),
			Sweep:    sweep,
			Dihedral: gamma,
			C:        r3.Vec{X: 1},
			S:        r3.Vec{Y: math.Cos(gamma), Z: -math.Sin(gamma)},
			N:        r3.Vec{Y: -math.Sin(gamma), Z: -math.Cos(gamma)},
			Airfoil:  plain,
		}
		if w.Surface != nil && w.Surface.Contains(eta) {
			s.Airfoil, s.Controlled = paired, true
		}
		stations[i] = s
		pos = r3.Add(pos, dp)
	}
	return stations, pos, nil
}

// mirror reflects a right-side station through the plane of symmetry.
func mirror(s Station) Station {
	s.Side = aircraft.Left
	s.Position.Y = -s.Position.Y
	s.S.Y = -s.S.Y
	s.N.Y = -s.N.Y
	return s
}
