// Package export writes recorded flights as standalone SVG drawings.
package export

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flightsim/internal/rigidbody"
)

type Point struct{ X, Y float64 }

// GroundTrack is the path over the ground, east to the right and north up.
func GroundTrack(states []rigidbody.State) []Point {
	pts := make([]Point, len(states))
	for i, s := range states {
		pts[i] = Point{X: s.Position.Y, Y: s.Position.X}
	}
	return pts
}

// Profile is altitude against time.
func Profile(times []float64, states []rigidbody.State) []Point {
	n := min(len(times), len(states))
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		pts[i] = Point{X: times[i], Y: states[i].Altitude()}
	}
	return pts
}

// TrajectoryToSVG draws points as one polyline scaled to fill the canvas
// with 10% padding. Axes keep independent scales. Fewer than two points
// give an empty string.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := range points {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
