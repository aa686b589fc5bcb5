package viz

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
)

// Series is one named trace sampled at the report times.
type Series struct {
	Name   string
	Values []float64
}

// FlightSeries derives the pilot readouts of a recorded run, angles in
// degrees.
func FlightSeries(states []rigidbody.State) map[string]Series {
	names := []string{"airspeed", "altitude", "climb", "alpha", "beta", "roll", "pitch", "heading"}
	out := make(map[string]Series, len(names))
	for _, n := range names {
		out[n] = Series{Name: n, Values: make([]float64, len(states))}
	}
	for i, s := range states {
		fd := sim.Snapshot{State: s}.Flight().Degrees()
		out["airspeed"].Values[i] = fd.Airspeed
		out["altitude"].Values[i] = fd.Altitude
		out["climb"].Values[i] = fd.ClimbRate
		out["alpha"].Values[i] = fd.Alpha
		out["beta"].Values[i] = fd.Beta
		out["roll"].Values[i] = fd.Roll
		out["pitch"].Values[i] = fd.Pitch
		out["heading"].Values[i] = fd.Heading
	}
	return out
}

// WriteReport renders an HTML page charting a recorded run: speed and
// height, aerodynamic angles, then attitude.
func WriteReport(w io.Writer, title string, times []float64, states []rigidbody.State) error {
	if len(times) != len(states) {
		return fmt.Errorf("%d times for %d states", len(times), len(states))
	}
	fs := FlightSeries(states)
	labels := make([]string, len(times))
	for i, t := range times {
		labels[i] = strconv.FormatFloat(t, 'f', 2, 64)
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		lineChart(title, "Speed and height", labels, fs["airspeed"], fs["altitude"], fs["climb"]),
		lineChart(title, "Aerodynamic angles (deg)", labels, fs["alpha"], fs["beta"]),
		lineChart(title, "Attitude (deg)", labels, fs["roll"], fs["pitch"], fs["heading"]),
	)
	return page.Render(w)
}

func lineChart(title, subtitle string, labels []string, series ...Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "1100px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(labels)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line
}
