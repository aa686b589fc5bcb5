// Package optim searches input and state parameters that minimize a cost,
// such as the steady-flight trim of an aircraft.
package optim

import (
	"context"
	"math"
)

// Objective scores one point of the grid; lower is better. A point that
// returns an error is skipped.
type Objective func(params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{(lo + hi) / 2}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search evaluates every combination and returns the best parameters and
// their cost. It stops early with ctx's error if ctx is cancelled.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		val, err := objective(current)
		if err != nil || math.IsNaN(val) {
			return nil
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Refine repeats the search, shrinking each range around the best point
// after every pass. Ranges are [lo, hi] pairs sampled with n points.
func Refine(ctx context.Context, names []string, bounds [][2]float64, n, passes int, objective Objective) (map[string]float64, float64, error) {
	lo := make([]float64, len(bounds))
	hi := make([]float64, len(bounds))
	for i, b := range bounds {
		lo[i], hi[i] = b[0], b[1]
	}

	var best map[string]float64
	cost := math.Inf(1)
	for pass := 0; pass < passes; pass++ {
		ranges := make([][]float64, len(names))
		for i := range names {
			ranges[i] = Linspace(lo[i], hi[i], n)
		}
		params, c, err := NewGridSearch(names, ranges).Search(ctx, objective)
		if err != nil {
			return best, cost, err
		}
		if params == nil {
			break
		}
		best, cost = params, c

		for i, name := range names {
			step := (hi[i] - lo[i]) / float64(max(n-1, 1))
			lo[i] = math.Max(bounds[i][0], best[name]-step)
			hi[i] = math.Min(bounds[i][1], best[name]+step)
		}
	}
	return best, cost, nil
}
