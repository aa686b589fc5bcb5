package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/automation"
	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/control"
	"github.com/san-kum/flightsim/internal/experiment"
	"github.com/san-kum/flightsim/internal/frame"
	"github.com/san-kum/flightsim/internal/log"
	"github.com/san-kum/flightsim/internal/optim"
	"github.com/san-kum/flightsim/internal/rigidbody"
	"github.com/san-kum/flightsim/internal/sim"
	"github.com/san-kum/flightsim/internal/storage"
	"github.com/san-kum/flightsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logDir   string
	lg       *log.Logger

	configFile   string
	preset       string
	aircraftFile string
	dt           float64
	duration     float64
	integrator   string
	source       string
	airspeed     float64
	altitude     float64
	alpha        float64
	bank         float64
	workers      int
	inputs       map[string]string
	telemetry    string
	realTime     bool
	stopAtGround bool

	stationAlpha float64

	theme string
	speed float64

	gamma    float64
	saveTrim string

	sweepAxis  int
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	parallel   int
	trials     int
	seed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flightsim",
		Short: "six degree of freedom flight simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lg = log.New(logLevel, logDir)
		},
		RunE: pickAndFly,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flightsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "log directory (default user cache dir)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly a configured run and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	flightFlags(runCmd)
	runCmd.Flags().StringVar(&telemetry, "telemetry", "", "stream every step into this sqlite database")
	runCmd.Flags().BoolVar(&realTime, "realtime", false, "pace the run to the wall clock")
	runCmd.Flags().BoolVar(&stopAtGround, "stop-at-ground", false, "stop when altitude drops below zero")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly from the keyboard in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	flightFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "cockpit", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().Float64Var(&speed, "speed", 1, "simulated seconds per second")

	validateCmd := &cobra.Command{
		Use:   "validate [aircraft.yaml]",
		Short: "check an aircraft file and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE:  validateAircraft,
	}

	stationsCmd := &cobra.Command{
		Use:   "stations [aircraft.yaml]",
		Short: "tabulate the spanwise stations and their loads",
		Args:  cobra.ExactArgs(1),
		RunE:  showStations,
	}
	stationsCmd.Flags().Float64Var(&airspeed, "airspeed", config.DefaultAirspeed, "airspeed")
	stationsCmd.Flags().Float64Var(&stationAlpha, "alpha", 4, "angle of attack (deg)")

	trimCmd := &cobra.Command{
		Use:   "trim [aircraft.yaml]",
		Short: "find steady wings-level flight",
		Args:  cobra.MaximumNArgs(1),
		RunE:  findTrim,
	}
	trimCmd.Flags().Float64Var(&airspeed, "airspeed", config.DefaultAirspeed, "airspeed")
	trimCmd.Flags().Float64Var(&altitude, "altitude", config.DefaultAltitude, "altitude")
	trimCmd.Flags().Float64Var(&gamma, "gamma", 0, "flight path angle (deg, climb positive)")
	trimCmd.Flags().StringVar(&saveTrim, "save", "", "write a run config flying the trim to this file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset run configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSOURCE\tDURATION\tDT\tAIRSPEED\tALTITUDE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.1fs\t%.4fs\t%.1f\t%.1f\n", name, p.Source, p.Duration, p.Dt, p.Initial.Airspeed, p.Initial.Altitude)
			}
			return w.Flush()
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "fly the same run with several integrators",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	flightFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure simulation speed",
		Args:  cobra.NoArgs,
		RunE:  benchmark,
	}
	flightFlags(benchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "fly once per value of one input axis",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	flightFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepAxis, "axis", 1, "input axis to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0 = unlimited)")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "fly randomly dispersed initial conditions",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	flightFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	monteCarloCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0 = unlimited)")

	rootCmd.AddCommand(runCmd, liveCmd, validateCmd, stationsCmd, trimCmd, presetsCmd,
		compareCmd, benchCmd, sweepCmd, monteCarloCmd)
	addRunCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// flightFlags registers the settings shared by every command that flies.
func flightFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset ("+strings.Join(config.ListPresets(), ", ")+")")
	cmd.Flags().StringVar(&aircraftFile, "aircraft", config.DefaultAircraft, "aircraft file")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().StringVar(&source, "source", config.SourceConstant, "input source")
	cmd.Flags().Float64Var(&airspeed, "airspeed", config.DefaultAirspeed, "initial airspeed")
	cmd.Flags().Float64Var(&altitude, "altitude", config.DefaultAltitude, "initial altitude")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "initial angle of attack (deg)")
	cmd.Flags().Float64Var(&bank, "bank", 0, "initial bank angle (deg)")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines per aerodynamic evaluation (0 = GOMAXPROCS)")
	cmd.Flags().StringToStringVar(&inputs, "input", nil, "constant input per axis, e.g. --input 3=0.5")
}

// loadConfig starts from the defaults, a preset or a config file, then
// applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("aircraft") {
		cfg.Aircraft = aircraftFile
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("source") {
		cfg.Source = source
	}
	if flags.Changed("airspeed") {
		cfg.Initial.Airspeed = airspeed
	}
	if flags.Changed("altitude") {
		cfg.Initial.Altitude = altitude
	}
	if flags.Changed("alpha") {
		cfg.Initial.Alpha = alpha
	}
	if flags.Changed("bank") {
		cfg.Initial.Bank = bank
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Lookup("telemetry") != nil && flags.Changed("telemetry") {
		cfg.Telemetry.SQLite = telemetry
	}
	if flags.Lookup("realtime") != nil && flags.Changed("realtime") {
		cfg.RealTime = realTime
	}
	if flags.Lookup("stop-at-ground") != nil && flags.Changed("stop-at-ground") {
		cfg.StopAtGround = stopAtGround
	}
	if len(inputs) > 0 {
		in, err := parseInputs(inputs)
		if err != nil {
			return nil, err
		}
		if cfg.Inputs == nil {
			cfg.Inputs = control.Inputs{}
		}
		for axis, v := range in {
			cfg.Inputs[axis] = v
		}
	}
	return cfg, cfg.Validate()
}

func parseInputs(raw map[string]string) (control.Inputs, error) {
	in := make(control.Inputs, len(raw))
	for k, v := range raw {
		axis, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("input axis %q: %w", k, err)
		}
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("input %d value %q: %w", axis, v, err)
		}
		in[axis] = val
	}
	return in, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, lg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("flying %s (%s, %s)...\n", exp.Model().Def.Name, cfg.Source, cfg.Integrator)
	start := time.Now()
	result, runErr := exp.Run(ctx)
	if closeErr := exp.Close(); closeErr != nil {
		lg.Warn("telemetry incomplete", "err", closeErr)
	}
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Aircraft:   exp.Model().Def.Name,
		Timestamp:  time.Now(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Source:     cfg.Source,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if sink := exp.Telemetry(); sink != nil {
		fmt.Printf("telemetry: %s (run %s)\n", cfg.Telemetry.SQLite, sink.RunID())
	}
	printFlight(result.Final.Flight())
	printMetrics(result.Metrics)
	if runErr != nil {
		fmt.Printf("\nstopped early: %v\n", runErr)
	}
	return nil
}

func printFlight(fd sim.FlightData) {
	fd = fd.Degrees()
	fmt.Println("\nfinal:")
	fmt.Printf("  airspeed: %.2f\n", fd.Airspeed)
	fmt.Printf("  altitude: %.2f\n", fd.Altitude)
	fmt.Printf("  climb:    %+.2f\n", fd.ClimbRate)
	fmt.Printf("  alpha:    %+.2f°\n", fd.Alpha)
	fmt.Printf("  roll:     %+.2f°\n", fd.Roll)
	fmt.Printf("  pitch:    %+.2f°\n", fd.Pitch)
	fmt.Printf("  heading:  %.2f°\n", fd.Heading)
}

func printMetrics(metrics map[string]float64) {
	if len(metrics) == 0 {
		return
	}
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func pickAndFly(cmd *cobra.Command, args []string) error {
	items := make([]viz.PickerItem, 0, len(config.Presets))
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		items = append(items, viz.PickerItem{
			Name:        name,
			Description: fmt.Sprintf("%s, %.0f at %.0f", p.Source, p.Initial.Airspeed, p.Initial.Altitude),
		})
	}
	chosen, err := viz.Pick("choose a flight", items)
	if err != nil || chosen == "" {
		return err
	}
	return fly(config.GetPreset(chosen), "cockpit", 1)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return fly(cfg, theme, speed)
}

func fly(cfg *config.Config, theme string, speed float64) error {
	model, err := sim.Load(cfg.Aircraft)
	if err != nil {
		return err
	}
	opts := sim.Options{
		Integrator: cfg.Integrator,
		Density:    cfg.Atmosphere.Density,
		Workers:    cfg.Workers,
		Logger:     lg,
	}
	return viz.RunLive(viz.LiveConfig{
		Title:   model.Def.Name,
		Dt:      cfg.Dt,
		Initial: cfg.Inputs,
		Theme:   theme,
		Speed:   speed,
		New: func() (*sim.Simulator, error) {
			return sim.New(model, cfg.InitialState(), opts)
		},
	})
}

func validateAircraft(cmd *cobra.Command, args []string) error {
	model, err := sim.Load(args[0])
	if err != nil {
		return err
	}
	def := model.Def
	fmt.Printf("%s: ok\n\n", def.Name)
	fmt.Printf("units:     %s\n", def.Units)
	fmt.Printf("weight:    %g (mass %.4g)\n", def.Weight, def.Mass())
	fmt.Printf("aero:      %s\n", def.Aero)
	fmt.Printf("wings:     %d (%d stations)\n", len(def.Wings), len(model.Geometry.Stations))
	fmt.Printf("airfoils:  %s\n", strings.Join(model.Airfoils.Names(), ", "))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCONTROL\tAXIS\tLIMIT\tSYMMETRIC")
	for _, c := range def.Controls {
		fmt.Fprintf(w, "%s\t%d\t%.1f°\t%v\n", c.Name, c.Axis, frame.Deg(c.MaxDeflection), c.Symmetric)
	}
	fmt.Fprintln(w, "\nENGINE\tCONTROL\tT0\tPOSITION")
	for _, e := range def.Engines {
		fmt.Fprintf(w, "%s\t%s\t%g\t(%g, %g, %g)\n", e.Name, e.Control, e.T0, e.Position.X, e.Position.Y, e.Position.Z)
	}
	fmt.Fprintln(w, "\nWING\tSIDE\tSEMISPAN\tROOT\tTIP")
	for _, wg := range model.Geometry.Wings {
		fmt.Fprintf(w, "%s\t%s\t%g\t(%.2f, %.2f, %.2f)\t(%.2f, %.2f, %.2f)\n", wg.Wing.Label(), wg.Wing.Side, wg.Wing.Semispan,
			wg.Root.X, wg.Root.Y, wg.Root.Z, wg.Tip.X, wg.Tip.Y, wg.Tip.Z)
	}
	return w.Flush()
}

func showStations(cmd *cobra.Command, args []string) error {
	model, err := sim.Load(args[0])
	if err != nil {
		return err
	}
	def := model.Def
	strip := aero.NewStripModel(model.Geometry, def.CG, aero.Options{Density: def.Units.SeaLevelDensity()})
	a := frame.Rad(stationAlpha)
	s := rigidbody.Level(0, config.DefaultAltitude)
	s.Velocity.X, s.Velocity.Z = airspeed*math.Cos(a), airspeed*math.Sin(a)
	s.Attitude = frame.FromEuler(frame.Euler{Pitch: a})
	fm := strip.Evaluate(s, control.NewMixer(model.Mixing, lg).Mix(nil))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WING\tSIDE\tETA\tY\tCHORD\tWIDTH\tSURFACE\tLOAD")
	for i, st := range model.Geometry.Stations {
		surface := ""
		if st.Controlled {
			surface = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%+.3f\t%.3f\t%.3f\t%s\t%s\n", def.Wings[st.Wing].Label(), st.Side, st.Eta,
			st.Position.Y, st.Chord, st.Width, surface, strip.Loads()[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ntotal force (%.2f, %.2f, %.2f) moment (%.2f, %.2f, %.2f)\n",
		fm.Force.X, fm.Force.Y, fm.Force.Z, fm.Moment.X, fm.Moment.Y, fm.Moment.Z)
	return nil
}

func findTrim(cmd *cobra.Command, args []string) error {
	path := config.DefaultAircraft
	if len(args) > 0 {
		path = args[0]
	}
	model, err := sim.Load(path)
	if err != nil {
		return err
	}
	s, err := sim.New(model, rigidbody.Level(airspeed, altitude), sim.Options{Logger: lg})
	if err != nil {
		return err
	}
	axes := viz.AxesFor(model.Def)
	if axes.Elevator < 0 || axes.Throttle < 0 {
		return fmt.Errorf("%s needs an elevator channel and an engine throttle to trim", model.Def.Name)
	}

	ctx, cancel := signalContext()
	defer cancel()
	trim, err := optim.FindTrim(ctx, s, optim.TrimConfig{
		Airspeed:     airspeed,
		Altitude:     altitude,
		Gamma:        frame.Rad(gamma),
		ElevatorAxis: axes.Elevator,
		ThrottleAxis: axes.Throttle,
	})
	if err != nil {
		return err
	}

	fmt.Printf("trim for %s at %.1f, altitude %.1f, gamma %.1f°\n\n", model.Def.Name, airspeed, altitude, gamma)
	fmt.Printf("  alpha:    %+.3f°\n", frame.Deg(trim.Alpha))
	fmt.Printf("  elevator: %+.4f\n", trim.Elevator)
	fmt.Printf("  throttle: %.4f\n", trim.Throttle)
	fmt.Printf("  residual: %.3g\n", trim.Cost)

	if saveTrim == "" {
		return nil
	}
	cfg := config.DefaultConfig()
	cfg.Aircraft = path
	cfg.Initial.Airspeed = airspeed
	cfg.Initial.Altitude = altitude
	cfg.Initial.Alpha = frame.Deg(trim.Alpha)
	cfg.Initial.Pitch = frame.Deg(trim.Alpha) + gamma
	cfg.Inputs = trim.Inputs(axes.Elevator, axes.Throttle)
	if err := config.Save(saveTrim, cfg); err != nil {
		return err
	}
	fmt.Printf("\nsaved %s\n", saveTrim)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tAIRSPEED\tALTITUDE\tPITCH\tENERGY DRIFT")
	registry := experiment.NewRegistry()
	for _, name := range args {
		run := *cfg
		run.Integrator = name
		exp := experiment.New(&run, lg)
		if err := exp.Setup(registry); err != nil {
			return err
		}
		start := time.Now()
		result, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fd := result.Final.Flight().Degrees()
		fmt.Fprintf(w, "%s\t%v\t%.3f\t%.3f\t%+.3f°\t%.3g\n", name, time.Since(start).Round(time.Millisecond),
			fd.Airspeed, fd.Altitude, fd.Pitch, result.Metrics["energy_drift"])
	}
	return w.Flush()
}

func benchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s\n\n", cfg.Aircraft)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tTIME\tSTEPS/SEC\tREALTIME")
	registry := experiment.NewRegistry()
	for _, step := range []float64{0.02, 0.01, 0.005, 0.001} {
		run := *cfg
		run.Dt = step
		run.Telemetry.SQLite = ""
		exp := experiment.New(&run, lg)
		if err := exp.Setup(registry); err != nil {
			return err
		}
		start := time.Now()
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%.4fs\t%d\t%v\t%.0f\tx%.1f\n", step, result.StepsTaken, elapsed.Round(time.Millisecond),
			float64(result.StepsTaken)/elapsed.Seconds(), run.Duration/elapsed.Seconds())
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	model, err := sim.Load(cfg.Aircraft)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Model:    model,
		Options:  sim.Options{Integrator: cfg.Integrator, Density: cfg.Atmosphere.Density, Workers: 1, Logger: lg},
		Run:      sim.RunConfig{Dt: cfg.Dt, Duration: cfg.Duration, StopAtGround: cfg.StopAtGround},
		Initial:  cfg.InitialState(),
		Base:     cfg.Inputs,
		Axis:     sweepAxis,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Parallel: parallel,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "AXIS %d\tAIRSPEED\tALTITUDE\tALPHA\tPITCH\tROLL\tSTATUS\n", sweepAxis)
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		fd := r.Final.Degrees()
		fmt.Fprintf(w, "%+.3f\t%.2f\t%.2f\t%+.2f°\t%+.2f°\t%+.2f°\t%s\n", r.Value, fd.Airspeed, fd.Altitude, fd.Alpha, fd.Pitch, fd.Roll, status)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Source != config.SourceConstant {
		return fmt.Errorf("montecarlo flies constant inputs, got source %q", cfg.Source)
	}
	model, err := sim.Load(cfg.Aircraft)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Model:     model,
		Options:   sim.Options{Integrator: cfg.Integrator, Density: cfg.Atmosphere.Density, Workers: 1, Logger: lg},
		Run:       sim.RunConfig{Dt: cfg.Dt, Duration: cfg.Duration, StopAtGround: cfg.StopAtGround},
		BaseState: cfg.InitialState(),
		Source:    control.Constant(cfg.Inputs.Clone()),
		Perturb: automation.Perturbation{
			Airspeed: 0.1 * cfg.Initial.Airspeed,
			Alpha:    frame.Rad(2),
			Attitude: frame.Rad(10),
			Rates:    frame.Rad(5),
		},
		NumTrials: trials,
		Seed:      seed,
		Parallel:  parallel,
		MaxBank:   frame.Rad(60),
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d  stable: %d  unstable: %d\n\n", len(results), stable, unstable)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tAIRSPEED\tALTITUDE\tROLL\tPITCH\tSTABLE")
	for _, r := range results {
		fd := r.Final.Degrees()
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%+.2f°\t%+.2f°\t%v\n", r.TrialID, fd.Airspeed, fd.Altitude, fd.Roll, fd.Pitch, r.Stable)
	}
	return w.Flush()
}
