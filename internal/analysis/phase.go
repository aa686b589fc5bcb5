package analysis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flightsim/internal/rigidbody"
)

// PhasePortrait holds two state fields of a recorded run.
type PhasePortrait struct {
	XName, YName string
	X, Y         []float64
}

// NewPhasePortrait picks fields xIdx and yIdx, in the flat state layout,
// out of every recorded state.
func NewPhasePortrait(states []rigidbody.State, xIdx, yIdx int) (*PhasePortrait, error) {
	for _, i := range []int{xIdx, yIdx} {
		if i < 0 || i >= rigidbody.StateDim {
			return nil, fmt.Errorf("state field %d out of range [0, %d)", i, rigidbody.StateDim)
		}
	}
	p := &PhasePortrait{
		XName: rigidbody.FieldName(xIdx),
		YName: rigidbody.FieldName(yIdx),
		X:     make([]float64, len(states)),
		Y:     make([]float64, len(states)),
	}
	for i, s := range states {
		v := s.Vector()
		p.X[i], p.Y[i] = v[xIdx], v[yIdx]
	}
	return p, nil
}

// ASCII draws the portrait with 10% padding and the axes when they are in
// view.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.X) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := floats.Min(p.X), floats.Max(p.X)
	minY, maxY := floats.Min(p.Y), floats.Max(p.Y)
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	cell := func(x, y float64) (int, int) {
		return int((x - minX) / rangeX * float64(width-1)),
			height - 1 - int((y-minY)/rangeY*float64(height-1))
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	for i := range p.X {
		col, row := cell(p.X[i], p.Y[i])
		canvas[row][col] = '•'
	}
	if minX <= 0 && maxX >= 0 {
		col, _ := cell(0, minY)
		for row := range canvas {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		_, row := cell(minX, 0)
		for col := range canvas[row] {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s vs %s\n", p.YName, p.XName)
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
