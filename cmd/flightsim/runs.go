package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/flightsim/internal/analysis"
	"github.com/san-kum/flightsim/internal/export"
	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
	"github.com/san-kum/flightsim/internal/storage"
	"github.com/san-kum/flightsim/internal/viz"
)

var (
	plotField string
	output    string
	svgView   string
	xAxis     string
	yAxis     string
)

// addRunCommands registers the commands that read stored runs.
func addRunCommands(root *cobra.Command) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotField, "field", "altitude", "series to plot ("+strings.Join(seriesNames, ", ")+")")

	chartCmd := &cobra.Command{
		Use:   "chart [run-id]",
		Short: "write an html report of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run-id>.html)")

	exportCSVCmd := &cobra.Command{
		Use:     "export-csv [run-id]",
		Aliases: []string{"export"},
		Short:   "print a stored run as csv",
		Args:    cobra.ExactArgs(1),
		RunE:    exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "print a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run-id]",
		Short: "draw the ground track or altitude profile as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgView, "view", "track", "track or profile")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run-id]",
		Short: "find the oscillation periods of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run-id]",
		Short: "phase portrait of two state fields",
		Args:  cobra.ExactArgs(1),
		RunE:  phaseRun,
	}
	phaseCmd.Flags().StringVar(&xAxis, "x-axis", "w", "state field on x")
	phaseCmd.Flags().StringVar(&yAxis, "y-axis", "q", "state field on y")

	telemetryCmd := &cobra.Command{
		Use:   "telemetry [db] [run-id]",
		Short: "list the runs in a telemetry database or summarize one",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  showTelemetry,
	}

	root.AddCommand(listCmd, plotCmd, chartCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, phaseCmd, telemetryCmd)
}

var seriesNames = []string{"airspeed", "altitude", "climb", "alpha", "beta", "roll", "pitch", "heading"}

func loadRun(id string) (*storage.RunMetadata, []rigidbody.State, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no states", id)
	}
	return meta, states, times, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAIRCRAFT\tSOURCE\tINTEGRATOR\tSTEPS\tTIMESTAMP")
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", id, r.Aircraft, r.Source, r.Integrator, r.Steps,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	series, ok := viz.FlightSeries(states)[plotField]
	if !ok {
		return fmt.Errorf("unknown field %q (available: %v)", plotField, seriesNames)
	}

	data := series.Values
	if len(data) > 200 {
		stride := len(data) / 200
		sampled := make([]float64, 0, 200)
		for i := 0; i < len(data); i += stride {
			sampled = append(sampled, data[i])
		}
		data = sampled
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: %s", meta.Aircraft, series.Name)))
	fmt.Println(graph)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := output
	if path == "" {
		path = meta.ID + ".html"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	title := fmt.Sprintf("%s (%s, %s)", meta.Aircraft, meta.Source, meta.Integrator)
	if err := viz.WriteReport(f, title, times, states); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(storage.Header()); err != nil {
		return err
	}
	for i, s := range states {
		if err := w.Write(storage.Row(times[i], s)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	final := sim.Snapshot{Time: times[len(times)-1], State: states[len(states)-1]}
	result := &sim.Result{
		Times:      times,
		States:     states,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
		Final:      final,
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var points []export.Point
	color := "#2c7be5"
	switch svgView {
	case "track":
		points = export.GroundTrack(states)
	case "profile":
		points = export.Profile(times, states)
		color = "#e5532c"
	default:
		return fmt.Errorf("unknown view %q (track or profile)", svgView)
	}
	svg := export.TrajectoryToSVG(points, 800, 600, color)

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err = io.WriteString(w, svg)
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	series := viz.FlightSeries(states)

	fmt.Printf("run %s: %s, %d samples at dt %.4fs\n\n", meta.ID, meta.Aircraft, len(states), meta.Dt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMIN\tMAX\tPERIOD")
	for _, name := range []string{"airspeed", "altitude", "alpha", "pitch", "roll"} {
		values := series[name].Values
		lo, hi := values[0], values[0]
		for _, v := range values {
			lo, hi = min(lo, v), max(hi, v)
		}
		period := "-"
		if p := analysis.DominantPeriod(values, meta.Dt); p > 0 {
			period = fmt.Sprintf("%.2fs", p)
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%s\n", series[name].Name, lo, hi, period)
	}
	return w.Flush()
}

func phaseRun(cmd *cobra.Command, args []string) error {
	_, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	xi, err := fieldIndex(xAxis)
	if err != nil {
		return err
	}
	yi, err := fieldIndex(yAxis)
	if err != nil {
		return err
	}
	portrait, err := analysis.NewPhasePortrait(states, xi, yi)
	if err != nil {
		return err
	}
	fmt.Println(portrait.ASCII(70, 24))
	return nil
}

func fieldIndex(name string) (int, error) {
	fields := make([]string, rigidbody.StateDim)
	for i := range fields {
		fields[i] = rigidbody.FieldName(i)
		if fields[i] == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown state field %q (available: %s)", name, strings.Join(fields, ", "))
}

func showTelemetry(cmd *cobra.Command, args []string) error {
	path := args[0]
	if len(args) == 1 {
		runs, err := storage.TelemetryRuns(path)
		if err != nil {
			return err
		}
		for _, id := range runs {
			fmt.Println(id)
		}
		return nil
	}

	rows, err := storage.ReadTelemetry(path, args[1])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no telemetry for run %s", args[1])
	}
	altitude := make([]float64, len(rows))
	for i, r := range rows {
		altitude[i] = r.Altitude
	}
	last := rows[len(rows)-1]
	fmt.Printf("%d steps, t=%.2fs, airspeed %.2f, altitude %.2f\n\n", len(rows), last.Time, last.Airspeed, last.Altitude)
	fmt.Println(asciigraph.Plot(altitude, asciigraph.Height(12), asciigraph.Width(80), asciigraph.Caption("altitude")))
	return nil
}
