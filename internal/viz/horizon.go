package viz

import (
	"math"
	"strings"
)

// Horizon is an attitude indicator drawn on a Braille canvas.
type Horizon struct {
	canvas *Canvas
	// DotsPerDegree sets the pitch scale.
	DotsPerDegree float64
}

func NewHorizon(w, h int) *Horizon {
	return &Horizon{canvas: NewCanvas(w, h), DotsPerDegree: 1}
}

// Draw renders the horizon for roll and pitch in radians. The horizon line
// and pitch ladder move with the aircraft; the wing symbol stays centered.
func (hz *Horizon) Draw(roll, pitch float64) *Canvas {
	c := hz.canvas
	c.Clear()
	w, h := c.Dots()
	cx, cy := float64(w)/2, float64(h)/2

	// Screen y points down. Banking right raises the right end of the
	// horizon and pitching up moves it down.
	dir := [2]float64{math.Cos(roll), -math.Sin(roll)}
	down := [2]float64{math.Sin(roll), math.Cos(roll)}
	pitchDeg := pitch * 180 / math.Pi

	line := func(deg, halfLen float64) {
		off := (pitchDeg - deg) * hz.DotsPerDegree
		ox, oy := cx+down[0]*off, cy+down[1]*off
		x0, y0 := ox-dir[0]*halfLen, oy-dir[1]*halfLen
		x1, y1 := ox+dir[0]*halfLen, oy+dir[1]*halfLen
		c.DrawLine(round(x0), round(y0), round(x1), round(y1))
	}

	line(0, float64(w))
	for _, deg := range []float64{-20, -10, 10, 20} {
		line(deg, float64(w)/8)
	}

	// fixed wing symbol
	wing := float64(w) / 6
	c.DrawLine(round(cx-wing), round(cy), round(cx-wing/3), round(cy))
	c.DrawLine(round(cx+wing/3), round(cy), round(cx+wing), round(cy))
	c.Set(round(cx), round(cy))
	return c
}

// Render draws the indicator with rows above the horizon in the sky color
// and rows below it in the ground color.
func (hz *Horizon) Render(roll, pitch float64, st Styles) string {
	rows := hz.Draw(roll, pitch).Rows()
	_, h := hz.canvas.Dots()
	split := (float64(h)/2 + pitch*180/math.Pi*hz.DotsPerDegree*math.Cos(roll)) / 4

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if float64(i) < split {
			sb.WriteString(st.Sky.Render(row))
		} else {
			sb.WriteString(st.Ground.Render(row))
		}
	}
	return sb.String()
}

func round(x float64) int { return int(math.Round(x)) }
