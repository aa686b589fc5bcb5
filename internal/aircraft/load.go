package aircraft

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flightsim/internal/dynamo"
)

// Load reads and validates an aircraft file. JSON files are accepted since
// JSON is valid YAML.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aircraft: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates an aircraft document. Every problem found is
// reported in the returned dynamo.ConfigurationErrors.
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, dynamo.ConfigurationErrors{{Kind: dynamo.MissingField, Path: "aircraft", Detail: "empty document"}}
		}
		return nil, decodeErrors(err)
	}

	var c checker
	def := c.definition(&doc)
	if c.haveErrors() {
		return nil, c.errs
	}
	return def, nil
}

func decodeErrors(err error) error {
	var terr *yaml.TypeError
	if !errors.As(err, &terr) {
		return dynamo.ConfigurationErrors{{Kind: dynamo.InvalidValue, Path: "aircraft", Detail: err.Error()}}
	}
	var errs dynamo.ConfigurationErrors
	for _, msg := range terr.Errors {
		kind := dynamo.InvalidValue
		if strings.Contains(msg, "not found in type") {
			kind = dynamo.UnknownKey
		}
		path, detail, ok := strings.Cut(msg, ": ")
		if !ok {
			path, detail = "aircraft", msg
		}
		errs = append(errs, &dynamo.ConfigurationError{Kind: kind, Path: path, Detail: detail})
	}
	return errs
}

// checker accumulates validation problems while tracking where in the
// document it is, so that one pass reports everything.
type checker struct {
	hierarchy []string
	errs      dynamo.ConfigurationErrors
}

func (c *checker) push(s string) { c.hierarchy = append(c.hierarchy, s) }
func (c *checker) pop()          { c.hierarchy = c.hierarchy[:len(c.hierarchy)-1] }

func (c *checker) errorf(kind dynamo.ConfigKind, format string, args ...any) {
	path := strings.Join(c.hierarchy, " / ")
	if path == "" {
		path = "aircraft"
	}
	c.errs = append(c.errs, dynamo.ConfigErrorf(kind, path, format, args...))
}

func (c *checker) haveErrors() bool { return len(c.errs) > 0 }

func (c *checker) definition(doc *document) *Definition {
	def := &Definition{
		Name:            doc.Name,
		CG:              vec(doc.CG),
		AngularMomentum: vec(doc.AngularMomentum),
		Reference: Reference{
			Area:               doc.Reference.Area,
			LongitudinalLength: doc.Reference.LongitudinalLength,
			LateralLength:      doc.Reference.LateralLength,
		},
	}

	switch doc.Units {
	case "", string(English):
		def.Units = English
	case string(SI):
		def.Units = SI
	default:
		c.push("units")
		c.errorf(dynamo.InvalidValue, "%q is not English or SI", doc.Units)
		c.pop()
	}

	switch doc.Aero.Type {
	case "", string(StripTheory):
		def.Aero = StripTheory
	default:
		c.push("aero / type")
		c.errorf(dynamo.InvalidValue, "unknown aerodynamic model %q", doc.Aero.Type)
		c.pop()
	}

	c.push("weight")
	if doc.Weight == nil {
		c.errorf(dynamo.MissingField, "weight is required")
	} else if !(*doc.Weight > 0) {
		c.errorf(dynamo.InvalidValue, "must be positive, got %g", *doc.Weight)
	} else {
		def.Weight = *doc.Weight
	}
	c.pop()

	c.push("inertia")
	if doc.Inertia == nil {
		c.errorf(dynamo.MissingField, "inertia is required")
	} else {
		in := doc.Inertia
		def.Inertia = Inertia{Ixx: in.Ixx, Iyy: in.Iyy, Izz: in.Izz, Ixy: in.Ixy, Ixz: in.Ixz, Iyz: in.Iyz}
		if !def.Inertia.PositiveDefinite() {
			c.errorf(dynamo.InvalidInertia, "tensor is not positive-definite")
		}
	}
	c.pop()

	def.Controls = c.controls(doc.Controls)
	def.Airfoils = c.airfoils(doc.Airfoils)
	def.Engines = c.engines(doc.Engines, def.Controls)
	def.Wings = c.wings(doc.Wings, def)

	return def
}

func (c *checker) controls(docs []controlDoc) []Control {
	out := make([]Control, 0, len(docs))
	names := make(map[string]bool)
	axes := make(map[int]string)

	for i, cd := range docs {
		c.push(fmt.Sprintf("controls[%d]", i))
		if cd.Name == "" {
			c.errorf(dynamo.MissingField, "name is required")
		} else if names[cd.Name] {
			c.errorf(dynamo.DuplicateID, "control %q declared twice", cd.Name)
		}
		names[cd.Name] = true

		ctl := Control{Name: cd.Name, MaxDeflection: cd.MaxDeflection * math.Pi / 180, Symmetric: cd.Symmetric}
		if cd.Axis == nil {
			c.errorf(dynamo.MissingField, "axis is required")
		} else {
			ctl.Axis = *cd.Axis
			if ctl.Axis < 0 {
				c.errorf(dynamo.InvalidValue, "axis must be non-negative, got %d", ctl.Axis)
			} else if other, ok := axes[ctl.Axis]; ok {
				c.errorf(dynamo.DuplicateAxis, "axis %d already used by %q", ctl.Axis, other)
			} else {
				axes[ctl.Axis] = cd.Name
			}
		}
		if cd.MaxDeflection < 0 {
			c.errorf(dynamo.InvalidValue, "max_deflection must be non-negative")
		}
		out = append(out, ctl)
		c.pop()
	}
	return out
}

func (c *checker) airfoils(docs []airfoilDoc) []AirfoilSpec {
	out := make([]AirfoilSpec, 0, len(docs))
	names := make(map[string]bool)

	for i, ad := range docs {
		c.push(fmt.Sprintf("airfoils[%d]", i))
		if ad.Name == "" {
			c.errorf(dynamo.MissingField, "name is required")
		} else if names[ad.Name] {
			c.errorf(dynamo.DuplicateID, "airfoil %q declared twice", ad.Name)
		}
		names[ad.Name] = true

		spec := AirfoilSpec{
			Name:      ad.Name,
			AL0:       ad.AL0,
			CLa:       ad.CLa,
			CmL0:      ad.CmL0,
			Cma:       ad.Cma,
			CD0:       ad.CD0,
			CD1:       ad.CD1,
			CD2:       ad.CD2,
			DCmdDelta: ad.DCmdDelta,
		}
		if ad.KDeflection != nil {
			spec.KDeflection, spec.HasKDeflection = *ad.KDeflection, true
		}

		switch ad.Type {
		case "", string(LinearAirfoil):
			spec.Type = LinearAirfoil
		case string(NonlinearAirfoil):
			spec.Type = NonlinearAirfoil
			spec.Alpha, spec.CL, spec.CD, spec.Cm = ad.Alpha, ad.CL, ad.CD, ad.Cm
			if ad.DCLdDelta != nil {
				spec.DCLdDelta, spec.HasDCL = *ad.DCLdDelta, true
			}
			c.alphaTable(&spec)
		default:
			c.errorf(dynamo.InvalidValue, "unknown airfoil type %q", ad.Type)
		}
		out = append(out, spec)
		c.pop()
	}
	return out
}

func (c *checker) alphaTable(spec *AirfoilSpec) {
	n := len(spec.Alpha)
	if n < 2 {
		c.errorf(dynamo.MissingField, "nonlinear airfoil needs at least two alpha breakpoints")
		return
	}
	if len(spec.CL) != n || len(spec.CD) != n || len(spec.Cm) != n {
		c.errorf(dynamo.InvalidValue, "CL, CD and Cm must each have %d entries", n)
	}
	if !(Table{X: spec.Alpha}).Monotonic() {
		c.errorf(dynamo.NonMonotonicTable, "alpha must be strictly increasing")
	}
}

func (c *checker) engines(docs []engineDoc, controls []Control) []Engine {
	out := make([]Engine, 0, len(docs))
	names := make(map[string]bool)

	for i, ed := range docs {
		c.push(fmt.Sprintf("engines[%d]", i))
		if ed.Name != "" && names[ed.Name] {
			c.errorf(dynamo.DuplicateID, "engine %q declared twice", ed.Name)
		}
		names[ed.Name] = true

		e := Engine{
			Name:         ed.Name,
			Control:      ed.Control,
			Position:     vec(ed.Position),
			Direction:    r3.Vec{X: 1},
			T0:           ed.T0,
			T1:           ed.T1,
			T2:           ed.T2,
			A:            1,
			SpinMomentum: vec(ed.SpinMomentum),
		}
		if ed.A != nil {
			e.A = *ed.A
		}
		if ed.Direction != nil {
			d := vec(*ed.Direction)
			if r3.Norm(d) == 0 {
				c.errorf(dynamo.InvalidValue, "direction must be non-zero")
			} else {
				e.Direction = r3.Unit(d)
			}
		}
		if ed.Control != "" && !hasControl(controls, ed.Control) {
			c.errorf(dynamo.UnknownControl, "control %q is not declared", ed.Control)
		}
		out = append(out, e)
		c.pop()
	}
	return out
}

func (c *checker) wings(docs []wingDoc, def *Definition) []Wing {
	out := make([]Wing, 0, len(docs))
	ids := make(map[int]bool)
	airfoils := make(map[string]bool)
	for _, a := range def.Airfoils {
		airfoils[a.Name] = true
	}

	for i, wd := range docs {
		label := fmt.Sprintf("wings[%d]", i)
		if wd.ID != nil {
			label += fmt.Sprintf(" (id %d)", *wd.ID)
		}
		c.push(label)

		w := Wing{Name: wd.Name, IsMain: wd.IsMain, Airfoil: wd.Airfoil}
		if wd.ID == nil {
			c.errorf(dynamo.MissingField, "id is required")
		} else {
			w.ID = *wd.ID
			if ids[w.ID] {
				c.errorf(dynamo.DuplicateID, "wing id %d declared twice", w.ID)
			}
			ids[w.ID] = true
		}

		switch wd.Side {
		case "both":
			w.Side = Both
		case "left":
			w.Side = Left
		case "", "right":
			w.Side = Right
		default:
			c.errorf(dynamo.InvalidValue, "side %q is not left, right or both", wd.Side)
		}

		if wd.Semispan == nil {
			c.errorf(dynamo.MissingField, "semispan is required")
		} else if !(*wd.Semispan > 0) {
			c.errorf(dynamo.InvalidValue, "semispan must be positive")
		} else {
			w.Semispan = *wd.Semispan
		}

		if wd.Connect != nil {
			c.connect(&w, wd.Connect)
		}

		if wd.Chord == nil {
			c.push("chord")
			c.errorf(dynamo.MissingField, "chord is required")
			c.pop()
		} else {
			w.Chord = c.table("chord", wd.Chord, 1)
		}
		w.Sweep = c.table("sweep", wd.Sweep, math.Pi/180)
		w.Dihedral = c.table("dihedral", wd.Dihedral, math.Pi/180)
		w.Twist = c.table("twist", wd.Twist, math.Pi/180)

		if wd.Airfoil == "" {
			c.errorf(dynamo.MissingField, "airfoil is required")
		} else if !airfoils[wd.Airfoil] {
			c.errorf(dynamo.UnknownAirfoil, "airfoil %q is not declared", wd.Airfoil)
		}

		if wd.ControlSurface != nil {
			w.Surface = c.surface(wd.ControlSurface, def.Controls)
		}
		w.Grid = c.grid(&wd.Grid, w.Surface)

		out = append(out, w)
		c.pop()
	}
	return out
}

func (c *checker) connect(w *Wing, cd *connectDoc) {
	c.push("connect")
	defer c.pop()

	if cd.ID != nil {
		w.HasParent, w.ParentID = true, *cd.ID
	}
	switch cd.Location {
	case "", "root":
		w.Attach = AttachRoot
	case "tip":
		w.Attach = AttachTip
	default:
		c.errorf(dynamo.InvalidValue, "location %q is not root or tip", cd.Location)
	}
	w.Offset = r3.Vec{X: cd.DX, Y: cd.DY, Z: cd.DZ}
}

// table converts a distribution, scaling values by unit. Absent
// distributions are zero everywhere.
func (c *checker) table(name string, d *Distribution, unit float64) Table {
	if d == nil {
		return Constant(0)
	}
	c.push(name)
	defer c.pop()

	if len(d.Points) == 0 {
		c.errorf(dynamo.MissingField, "table is empty")
		return Constant(0)
	}
	t := Table{X: make([]float64, len(d.Points)), Y: make([]float64, len(d.Points))}
	for i, p := range d.Points {
		t.X[i], t.Y[i] = p[0], p[1]*unit
		if p[0] < 0 || p[0] > 1 {
			c.errorf(dynamo.InvalidValue, "span fraction %g outside [0, 1]", p[0])
		}
	}
	if !t.Monotonic() {
		c.errorf(dynamo.NonMonotonicTable, "span fractions must be strictly increasing")
	}
	return t
}

func (c *checker) surface(sd *surfaceDoc, controls []Control) *ControlSurface {
	c.push("control_surface")
	defer c.pop()

	cs := &ControlSurface{
		ChordFraction: sd.ChordFraction,
		RootSpan:      sd.RootSpan,
		TipSpan:       1,
		Mixing:        make(map[string]float64, len(sd.Mixing)),
	}
	if sd.TipSpan != nil {
		cs.TipSpan = *sd.TipSpan
	}
	if !(cs.ChordFraction > 0 && cs.ChordFraction <= 1) {
		c.errorf(dynamo.InvalidValue, "chord_fraction must be in (0, 1], got %g", cs.ChordFraction)
	}
	if cs.RootSpan < 0 || cs.TipSpan > 1 || !(cs.RootSpan < cs.TipSpan) {
		c.errorf(dynamo.InvalidValue, "span range [%g, %g] is not an increasing interval in [0, 1]", cs.RootSpan, cs.TipSpan)
	}
	if len(sd.Mixing) == 0 {
		c.errorf(dynamo.MissingField, "mixing is required")
	}
	for name, w := range sd.Mixing {
		if !hasControl(controls, name) {
			c.errorf(dynamo.UnknownControl, "mixing references undeclared control %q", name)
		}
		cs.Mixing[name] = w
	}
	return cs
}

func (c *checker) grid(gd *gridDoc, cs *ControlSurface) Grid {
	c.push("grid")
	defer c.pop()

	g := Grid{N: 10, Clustering: Uniform}
	if gd.N != nil {
		g.N = *gd.N
		if g.N < 1 {
			c.errorf(dynamo.InvalidValue, "N must be at least 1, got %d", g.N)
		}
	}
	switch gd.Clustering {
	case "", string(Uniform):
	case string(Cosine):
		g.Clustering = Cosine
	default:
		c.errorf(dynamo.InvalidValue, "clustering %q is not uniform or cosine", gd.Clustering)
	}

	g.ClusterPoints = append([]float64(nil), gd.ClusterPoints...)
	if g.Clustering == Cosine && len(g.ClusterPoints) == 0 && cs != nil {
		g.ClusterPoints = []float64{cs.RootSpan, cs.TipSpan}
	}
	for _, p := range g.ClusterPoints {
		if p < 0 || p > 1 {
			c.errorf(dynamo.InvalidValue, "cluster point %g outside [0, 1]", p)
		}
	}
	return g
}

func hasControl(controls []Control, name string) bool {
	for _, ctl := range controls {
		if ctl.Name == name {
			return true
		}
	}
	return false
}

func vec(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
