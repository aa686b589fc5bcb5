package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/airfoil"
	"github.com/san-kum/flightsim/internal/dynamo"
)

func testDB(t *testing.T) *airfoil.Database {
	t.Helper()
	db, err := airfoil.NewDatabase([]aircraft.AirfoilSpec{
		{Name: "flat", Type: aircraft.LinearAirfoil, CLa: 2 * math.Pi},
	})
	require.NoError(t, err)
	return db
}

func wing(id int, side aircraft.Side, n int) aircraft.Wing {
	return aircraft.Wing{
		ID:       id,
		Side:     side,
		Semispan: 2,
		Chord:    aircraft.Constant(0.5),
		Sweep:    aircraft.Constant(0),
		Dihedral: aircraft.Constant(0),
		Twist:    aircraft.Constant(0),
		Airfoil:  "flat",
		Grid:     aircraft.Grid{N: n, Clustering: aircraft.Uniform},
	}
}

func TestStationCountAndOrder(t *testing.T) {
	for _, n := range []int{1, 2, 7, 40} {
		for _, clustering := range []aircraft.Clustering{aircraft.Uniform, aircraft.Cosine} {
			w := wing(1, aircraft.Both, n)
			w.Grid.Clustering = clustering
			w.Grid.ClusterPoints = []float64{0.3, 0.8}
			w.Dihedral = aircraft.Table{X: []float64{0, 1}, Y: []float64{0, 0.2}}
			def := &aircraft.Definition{Wings: []aircraft.Wing{w}}

			geo, err := Resolve(def, testDB(t))
			require.NoError(t, err)
			require.Len(t, geo.Stations, 2*n, "n=%d %s", n, clustering)

			right := geo.Stations[:n]
			left := geo.Stations[n:]
			total := 0.0
			for i := range right {
				assert.Equal(t, aircraft.Right, right[i].Side)
				assert.Equal(t, aircraft.Left, left[i].Side)
				total += right[i].Width
				if i > 0 {
					assert.Greater(t, right[i].Eta, right[i-1].Eta)
					assert.GreaterOrEqual(t, right[i].Position.Y, right[i-1].Position.Y)
					assert.LessOrEqual(t, left[i].Position.Y, left[i-1].Position.Y)
				}
				assert.InDelta(t, right[i].Position.Y, -left[i].Position.Y, 1e-15)
				assert.InDelta(t, right[i].Position.Z, left[i].Position.Z, 1e-15)
			}
			assert.InDelta(t, 2.0, total, 1e-12)
		}
	}
}

func TestSectionAxes(t *testing.T) {
	w := wing(1, aircraft.Both, 1)
	w.Dihedral = aircraft.Constant(math.Pi / 2)
	def := &aircraft.Definition{Wings: []aircraft.Wing{w}}

	geo, err := Resolve(def, testDB(t))
	require.NoError(t, err)

	r, l := geo.Stations[0], geo.Stations[1]
	// a vertical right panel points up with its upper surface facing inboard
	assert.InDelta(t, -1.0, r.S.Z, 1e-15)
	assert.InDelta(t, -1.0, r.N.Y, 1e-15)
	assert.InDelta(t, 1.0, l.N.Y, 1e-15)

	// nose-up section moment axis is +y on both sides of a flat wing
	flat := wing(2, aircraft.Both, 1)
	geo, err = Resolve(&aircraft.Definition{Wings: []aircraft.Wing{flat}}, testDB(t))
	require.NoError(t, err)
	for _, s := range geo.Stations {
		axis := r3.Cross(s.C, s.N)
		assert.InDelta(t, 1.0, axis.Y, 1e-15)
	}
}

func TestAttachment(t *testing.T) {
	main := wing(1, aircraft.Both, 4)
	main.Offset = r3.Vec{X: 0.5}

	tip := wing(2, aircraft.Right, 2)
	tip.HasParent, tip.ParentID, tip.Attach = true, 1, aircraft.AttachTip
	tip.Offset = r3.Vec{Z: -0.1}

	tail := wing(3, aircraft.Both, 2)
	tail.HasParent, tail.ParentID = true, 1
	tail.Offset = r3.Vec{X: -3}

	// children declared before their parent still resolve
	def := &aircraft.Definition{Wings: []aircraft.Wing{tip, tail, main}}
	geo, err := Resolve(def, testDB(t))
	require.NoError(t, err)

	assert.Equal(t, r3.Vec{X: 0.5}, geo.Wings[2].Root)
	assert.InDelta(t, 2.0, geo.Wings[2].Tip.Y, 1e-12)
	assert.InDelta(t, 2.0, geo.Wings[0].Root.Y, 1e-12)
	assert.InDelta(t, -0.1, geo.Wings[0].Root.Z, 1e-12)
	assert.InDelta(t, -2.5, geo.Wings[1].Root.X, 1e-12)

	// declaration order is kept in the station list
	assert.Equal(t, 0, geo.Stations[0].Wing)
	assert.Equal(t, 2, geo.Wings[0].Count)
	assert.Equal(t, 4, geo.Wings[1].Count)
	assert.Equal(t, 8, geo.Wings[2].Count)
}

func TestAttachmentErrors(t *testing.T) {
	dangling := wing(2, aircraft.Both, 1)
	dangling.HasParent, dangling.ParentID = true, 99

	a := wing(3, aircraft.Both, 1)
	a.HasParent, a.ParentID = true, 4
	b := wing(4, aircraft.Both, 1)
	b.HasParent, b.ParentID = true, 3

	self := wing(5, aircraft.Both, 1)
	self.HasParent, self.ParentID = true, 5

	tests := []struct {
		name  string
		wings []aircraft.Wing
		kind  dynamo.ConfigKind
	}{
		{"dangling", []aircraft.Wing{wing(1, aircraft.Both, 1), dangling}, dynamo.DanglingAttachment},
		{"cycle", []aircraft.Wing{wing(1, aircraft.Both, 1), a, b}, dynamo.AttachmentCycle},
		{"self", []aircraft.Wing{self}, dynamo.AttachmentCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(&aircraft.Definition{Wings: tt.wings}, testDB(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, dynamo.ErrInvalidConfig))

			var cerr *dynamo.ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.kind, cerr.Kind)
			assert.Contains(t, cerr.Path, "connect")
		})
	}
}

func TestControlSurfaceStations(t *testing.T) {
	w := wing(1, aircraft.Right, 10)
	w.Surface = &aircraft.ControlSurface{ChordFraction: 0.3, RootSpan: 0.5, TipSpan: 1, Mixing: map[string]float64{"aileron": 1}}
	geo, err := Resolve(&aircraft.Definition{Wings: []aircraft.Wing{w}}, testDB(t))
	require.NoError(t, err)

	for _, s := range geo.Stations {
		assert.Equal(t, s.Eta >= 0.5, s.Controlled, "eta=%g", s.Eta)
		cl, _, _ := s.Airfoil.Coefficients(0, 1)
		if s.Controlled {
			assert.Greater(t, cl, 0.0)
		} else {
			assert.Equal(t, 0.0, cl)
		}
	}
}

func TestPanelEdges(t *testing.T) {
	tests := []struct {
		name string
		grid aircraft.Grid
	}{
		{"uniform", aircraft.Grid{N: 5, Clustering: aircraft.Uniform}},
		{"cosine plain", aircraft.Grid{N: 6, Clustering: aircraft.Cosine}},
		{"cosine points", aircraft.Grid{N: 12, Clustering: aircraft.Cosine, ClusterPoints: []float64{0.25, 0.75}}},
		{"cosine merge", aircraft.Grid{N: 2, Clustering: aircraft.Cosine, ClusterPoints: []float64{0.1, 0.2, 0.9}}},
		{"single", aircraft.Grid{N: 1, Clustering: aircraft.Cosine, ClusterPoints: []float64{0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := PanelEdges(tt.grid)
			require.Len(t, edges, tt.grid.N+1)
			assert.Equal(t, 0.0, edges[0])
			assert.Equal(t, 1.0, edges[len(edges)-1])
			for i := 1; i < len(edges); i++ {
				assert.Greater(t, edges[i], edges[i-1])
			}
		})
	}

	edges := PanelEdges(aircraft.Grid{N: 12, Clustering: aircraft.Cosine, ClusterPoints: []float64{0.25, 0.75}})
	assert.Contains(t, edges, 0.25)
	// panels next to a cluster point are narrower than mid-segment ones
	assert.Less(t, edges[1]-edges[0], edges[2]-edges[1])
}
