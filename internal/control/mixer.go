package control

import (
	"math"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/log"
)

// Inputs maps an input axis to a normalized command. Control surfaces
// expect [-1, 1], throttles [0, 1]. Missing axes read as zero.
type Inputs map[int]float64

func (in Inputs) Clone() Inputs {
	out := make(Inputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Deflections holds the deflection in radians of each wing's control
// surface, indexed like Definition.Wings. Wings without a surface read 0.
type Deflections struct {
	Right []float64
	Left  []float64
}

func (d Deflections) Side(wing int, side aircraft.Side) float64 {
	if side == aircraft.Left {
		return d.Left[wing]
	}
	return d.Right[wing]
}

type term struct {
	channel   string
	axis      int
	gain      float64 // max_deflection · weight
	symmetric bool
}

type surfaceMix struct {
	terms []term
	limit float64
}

// Table is the resolved mixing for one aircraft. It is immutable and may be
// shared; each simulator wraps it in its own Mixer.
type Table struct {
	channels  []aircraft.Control
	surfaces  []*surfaceMix
	throttles []int
}

func NewTable(def *aircraft.Definition) *Table {
	t := &Table{
		channels:  def.Controls,
		surfaces:  make([]*surfaceMix, len(def.Wings)),
		throttles: make([]int, len(def.Engines)),
	}
	for i := range def.Wings {
		cs := def.Wings[i].Surface
		if cs == nil {
			continue
		}
		sm := &surfaceMix{}
		for _, name := range cs.Channels() {
			ch, ok := def.Control(name)
			if !ok {
				continue
			}
			sm.terms = append(sm.terms, term{
				channel:   name,
				axis:      ch.Axis,
				gain:      ch.MaxDeflection * cs.Mixing[name],
				symmetric: ch.Symmetric,
			})
			sm.limit = math.Max(sm.limit, ch.MaxDeflection)
		}
		t.surfaces[i] = sm
	}
	for i, e := range def.Engines {
		t.throttles[i] = -1
		if ch, ok := def.Control(e.Control); ok {
			t.throttles[i] = ch.Axis
		}
	}
	return t
}

// Mixer turns inputs into surface deflections and throttle settings.
// Out-of-range commands are clamped and reported once per channel.
type Mixer struct {
	table  *Table
	lg     *log.Logger
	warned map[int]bool
}

func NewMixer(table *Table, lg *log.Logger) *Mixer {
	return &Mixer{table: table, lg: lg, warned: make(map[int]bool)}
}

func (m *Mixer) Table() *Table { return m.table }

// Mix computes clamp(Σ max_deflection·w·input, ±L) per surface, where L is
// the largest max_deflection among the surface's channels. Antisymmetric
// channels contribute with opposite sign on the left side.
func (m *Mixer) Mix(in Inputs) Deflections {
	n := len(m.table.surfaces)
	d := Deflections{Right: make([]float64, n), Left: make([]float64, n)}
	for i, sm := range m.table.surfaces {
		if sm == nil {
			continue
		}
		var sym, anti float64
		for _, tm := range sm.terms {
			v := tm.gain * m.command(in, tm.axis, -1)
			if tm.symmetric {
				sym += v
			} else {
				anti += v
			}
		}
		d.Right[i] = clamp(sym+anti, -sm.limit, sm.limit)
		d.Left[i] = clamp(sym-anti, -sm.limit, sm.limit)
	}
	return d
}

// Throttles returns one setting in [0, 1] per engine. Engines without a
// controlling channel run at full throttle.
func (m *Mixer) Throttles(in Inputs) []float64 {
	out := make([]float64, len(m.table.throttles))
	for i, axis := range m.table.throttles {
		if axis < 0 {
			out[i] = 1
			continue
		}
		out[i] = m.command(in, axis, 0)
	}
	return out
}

func (m *Mixer) command(in Inputs, axis int, lo float64) float64 {
	v := in[axis]
	c := clamp(v, lo, 1)
	if c != v || math.IsNaN(v) {
		if math.IsNaN(v) {
			c = 0
		}
		if !m.warned[axis] {
			m.warned[axis] = true
			m.lg.Warn("control input out of range, clamping",
				"channel", m.channelName(axis), "axis", axis, "value", v, "clamped", c)
		}
	}
	return c
}

func (m *Mixer) channelName(axis int) string {
	for _, ch := range m.table.channels {
		if ch.Axis == axis {
			return ch.Name
		}
	}
	return ""
}

// Clamped reports whether an out-of-range value has been seen on axis.
func (m *Mixer) Clamped(axis int) bool { return m.warned[axis] }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
