package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/sim"
)

const (
	frameRate       = 30
	historyCapacity = 300
	stickStep       = 0.05
	throttleStep    = 0.05
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// LiveConfig describes a live session. New is called at start and again
// on every restart.
type LiveConfig struct {
	Title   string
	Dt      float64
	New     func() (*sim.Simulator, error)
	Initial control.Inputs
	Theme   string
	// Speed is simulated seconds per wall-clock second.
	Speed float64
}

// Axes maps pilot controls onto input axes. A negative axis is not flown.
type Axes struct {
	Aileron, Elevator, Rudder, Throttle int
}

// AxesFor looks the pilot channels up by name. The throttle is the channel
// of the first engine.
func AxesFor(def *aircraft.Definition) Axes {
	axis := func(name string) int {
		if ch, ok := def.Control(name); ok {
			return ch.Axis
		}
		return -1
	}
	a := Axes{Aileron: axis("aileron"), Elevator: axis("elevator"), Rudder: axis("rudder"), Throttle: -1}
	if len(def.Engines) > 0 && def.Engines[0].Control != "" {
		a.Throttle = axis(def.Engines[0].Control)
	}
	return a
}

// Live flies a simulator from the keyboard.
type Live struct {
	cfg     LiveConfig
	sim     *sim.Simulator
	pilot   *control.Manual
	axes    Axes
	snap    sim.Snapshot
	err     error
	running bool
	speed   float64

	theme   Theme
	styles  Styles
	horizon *Horizon

	altitude []float64
	airspeed []float64
	showHelp bool
	width    int
}

func NewLive(cfg LiveConfig) (Live, error) {
	if cfg.Dt <= 0 {
		return Live{}, fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	theme := GetTheme(cfg.Theme)
	m := Live{
		cfg:     cfg,
		running: true,
		speed:   cfg.Speed,
		theme:   theme,
		styles:  NewStyles(theme),
		horizon: NewHorizon(30, 12),
		width:   100,
	}
	if err := m.restart(); err != nil {
		return Live{}, err
	}
	return m, nil
}

func (m *Live) restart() error {
	s, err := m.cfg.New()
	if err != nil {
		return err
	}
	m.sim = s
	m.pilot = control.NewManual(m.cfg.Initial)
	m.axes = AxesFor(s.Model().Def)
	m.snap = s.Snapshot()
	m.err = nil
	m.altitude = m.altitude[:0]
	m.airspeed = m.airspeed[:0]
	return nil
}

func (m Live) Init() tea.Cmd { return tick() }

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			if err := m.restart(); err != nil {
				m.err = err
			}
		case "up", "k":
			m.nudge(m.axes.Elevator, stickStep, -1, 1)
		case "down", "j":
			m.nudge(m.axes.Elevator, -stickStep, -1, 1)
		case "left", "h":
			m.nudge(m.axes.Aileron, stickStep, -1, 1)
		case "right", "l":
			m.nudge(m.axes.Aileron, -stickStep, -1, 1)
		case "a":
			m.nudge(m.axes.Rudder, -stickStep, -1, 1)
		case "d":
			m.nudge(m.axes.Rudder, stickStep, -1, 1)
		case "w":
			m.nudge(m.axes.Throttle, throttleStep, 0, 1)
		case "s":
			m.nudge(m.axes.Throttle, -throttleStep, 0, 1)
		case "c":
			for _, axis := range []int{m.axes.Aileron, m.axes.Elevator, m.axes.Rudder} {
				if axis >= 0 {
					m.pilot.Set(axis, 0)
				}
			}
		case "[":
			m.speed = math.Max(0.125, m.speed/2)
		case "]":
			m.speed = math.Min(8, m.speed*2)
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.styles = NewStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tickMsg:
		if m.running && m.err == nil {
			m.advance(m.speed / frameRate)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Live) nudge(axis int, delta, lo, hi float64) {
	if axis >= 0 {
		m.pilot.Nudge(axis, delta, lo, hi)
	}
}

// advance flies whole steps covering span seconds, at least one.
func (m *Live) advance(span float64) {
	steps := max(1, int(math.Round(span/m.cfg.Dt)))
	for i := 0; i < steps; i++ {
		snap := m.sim.Snapshot()
		if err := m.sim.Step(m.pilot.Compute(snap.State, snap.Time), m.cfg.Dt); err != nil {
			m.err = err
			break
		}
	}
	m.snap = m.sim.Snapshot()
	fd := m.snap.Flight()
	m.altitude = push(m.altitude, fd.Altitude)
	m.airspeed = push(m.airspeed, fd.Airspeed)
}

func push(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[len(h)-historyCapacity:]
	}
	return h
}

// Time is the simulated time of the last step.
func (m Live) Time() float64 { return m.snap.Time }

func (m Live) Err() error { return m.err }

func (m Live) Pilot() *control.Manual { return m.pilot }

func (m Live) Axes() Axes { return m.axes }

func (m Live) View() string {
	st := m.styles
	fd := m.snap.Flight().Degrees()

	status := st.Good.Render("FLYING")
	switch {
	case m.err != nil:
		status = st.Error.Render("HALTED: " + m.err.Error())
	case !m.running:
		status = st.Warning.Render("PAUSED")
	case fd.Altitude < 0:
		status = st.Warning.Render("BELOW GROUND")
	}

	row := func(label, value string) string {
		return st.Label.Render(label) + st.Value.Render(value) + "\n"
	}
	var r strings.Builder
	r.WriteString(st.Header.Render(strings.ToUpper(m.cfg.Title)) + "\n")
	r.WriteString(status + fmt.Sprintf("  x%g\n\n", m.speed))
	r.WriteString(row("Time", fmt.Sprintf("%.2f s", m.snap.Time)))
	r.WriteString(row("Airspeed", fmt.Sprintf("%.1f", fd.Airspeed)))
	r.WriteString(row("Altitude", fmt.Sprintf("%.1f", fd.Altitude)))
	r.WriteString(row("Climb", fmt.Sprintf("%+.1f", fd.ClimbRate)))
	r.WriteString(row("Alpha", fmt.Sprintf("%+.1f°", fd.Alpha)))
	r.WriteString(row("Beta", fmt.Sprintf("%+.1f°", fd.Beta)))
	r.WriteString(row("Roll", fmt.Sprintf("%+.1f°", fd.Roll)))
	r.WriteString(row("Pitch", fmt.Sprintf("%+.1f°", fd.Pitch)))
	r.WriteString(row("Heading", fmt.Sprintf("%05.1f°", fd.Heading)))

	r.WriteString("\n")
	gauge := func(label string, axis int, lo, hi float64) {
		if axis < 0 {
			return
		}
		v := m.pilot.Get(axis)
		r.WriteString(st.Label.Render(label) + Gauge(v, lo, hi, 21) + fmt.Sprintf(" %+.2f\n", v))
	}
	gauge("Aileron", m.axes.Aileron, -1, 1)
	gauge("Elevator", m.axes.Elevator, -1, 1)
	gauge("Rudder", m.axes.Rudder, -1, 1)
	gauge("Throttle", m.axes.Throttle, 0, 1)

	left := st.Panel.Render(m.horizon.Render(frame.Rad(fd.Roll), frame.Rad(fd.Pitch), st))
	if len(m.altitude) > 1 {
		graph := asciigraph.Plot(m.altitude, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("altitude"))
		left += "\n" + st.Graph.Render(graph)
	}

	help := st.Help.Render("↑↓ elev  ←→ ail  A/D rud  W/S thr  C center  SP pause  R restart  [ ] speed  T theme  ? help  Q quit")
	view := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", st.Panel.Render(r.String())) + "\n" + help
	if m.showHelp {
		return st.Panel.Render(helpText) + "\n" + view
	}
	return view
}

const helpText = `KEYBOARD
  ↑ / ↓      elevator, nose down / nose up
  ← / →      aileron, roll left / roll right
  A / D      rudder
  W / S      throttle up / down
  C          center stick and rudder
  Space      pause or resume
  R          restart from the initial state
  [ / ]      halve or double the time scale
  T          next theme
  Q          quit`

// RunLive opens the cockpit on the terminal and blocks until the user quits.
func RunLive(cfg LiveConfig) error {
	m, err := NewLive(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
