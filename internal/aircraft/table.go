package aircraft

import "strconv"

// Table is a piecewise-linear function with strictly increasing X. Lookups
// outside the breakpoints hold the end values.
type Table struct {
	X []float64
	Y []float64
}

func Constant(v float64) Table {
	return Table{X: []float64{0}, Y: []float64{v}}
}

func (t Table) At(x float64) float64 {
	n := len(t.X)
	switch {
	case n == 0:
		return 0
	case n == 1 || x <= t.X[0]:
		return t.Y[0]
	case x >= t.X[n-1]:
		return t.Y[n-1]
	}

	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if t.X[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	f := (x - t.X[lo]) / (t.X[hi] - t.X[lo])
	return t.Y[lo] + f*(t.Y[hi]-t.Y[lo])
}

// Slope returns dY/dX on the segment containing x.
func (t Table) Slope(x float64) float64 {
	n := len(t.X)
	if n < 2 {
		return 0
	}
	i := 0
	for i < n-2 && x > t.X[i+1] {
		i++
	}
	return (t.Y[i+1] - t.Y[i]) / (t.X[i+1] - t.X[i])
}

// Monotonic reports whether X is strictly increasing.
func (t Table) Monotonic() bool {
	for i := 1; i < len(t.X); i++ {
		if !(t.X[i] > t.X[i-1]) {
			return false
		}
	}
	return true
}

func itoa(i int) string { return strconv.Itoa(i) }
