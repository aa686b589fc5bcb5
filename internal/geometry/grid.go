package geometry

import (
	"math"
	"sort"

	"github.com/san-kum/flightsim/internal/aircraft"
)

// PanelEdges returns the n+1 span fractions bounding n panels.
//
// Uniform grids use η_i = i/n. Cosine grids split [0, 1] at the cluster
// points and apply full-cosine spacing, η = a + (b-a)(1 - cos(πi/m))/2,
// inside each segment so panels crowd toward every segment edge. Panels are
// allocated to segments in proportion to segment length by the largest
// remainder method; a segment that would receive none is merged into its
// neighbour.
func PanelEdges(g aircraft.Grid) []float64 {
	n := g.N
	if n < 1 {
		n = 1
	}
	if g.Clustering != aircraft.Cosine {
		edges := make([]float64, n+1)
		for i := range edges {
			edges[i] = float64(i) / float64(n)
		}
		return edges
	}

	bounds := segmentBounds(g.ClusterPoints)
	counts := allocate(bounds, n)
	for hasZero(counts) {
		bounds = mergeFirstEmpty(bounds, counts)
		counts = allocate(bounds, n)
	}

	edges := []float64{0}
	for k, m := range counts {
		a, b := bounds[k], bounds[k+1]
		for i := 1; i <= m; i++ {
			edges = append(edges, a+(b-a)*(1-math.Cos(math.Pi*float64(i)/float64(m)))/2)
		}
	}
	edges[len(edges)-1] = 1
	return edges
}

func segmentBounds(points []float64) []float64 {
	bounds := []float64{0, 1}
	for _, p := range points {
		if p > 0 && p < 1 {
			bounds = append(bounds, p)
		}
	}
	sort.Float64s(bounds)

	out := bounds[:1]
	for _, b := range bounds[1:] {
		if b > out[len(out)-1] {
			out = append(out, b)
		}
	}
	return out
}

func allocate(bounds []float64, n int) []int {
	segs := len(bounds) - 1
	counts := make([]int, segs)
	rems := make([]float64, segs)
	used := 0
	for k := 0; k < segs; k++ {
		ideal := float64(n) * (bounds[k+1] - bounds[k])
		counts[k] = int(math.Floor(ideal))
		rems[k] = ideal - float64(counts[k])
		used += counts[k]
	}

	order := make([]int, segs)
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(i, j int) bool { return rems[order[i]] > rems[order[j]] })
	for i := 0; used < n; i++ {
		counts[order[i%segs]]++
		used++
	}
	return counts
}

func hasZero(counts []int) bool {
	for _, c := range counts {
		if c == 0 {
			return true
		}
	}
	return false
}

// mergeFirstEmpty removes an interior bound of the first empty segment.
func mergeFirstEmpty(bounds []float64, counts []int) []float64 {
	for k, c := range counts {
		if c != 0 {
			continue
		}
		drop := k + 1
		if drop == len(bounds)-1 {
			drop = k
		}
		out := append([]float64(nil), bounds[:drop]...)
		return append(out, bounds[drop+1:]...)
	}
	return bounds
}
