package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/experiment"
	"github.com/san-kum/rocketsim/internal/export"
	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/optim"
	"github.com/san-kum/rocketsim/internal/prompt"
	"github.com/san-kum/rocketsim/internal/record"
	"github.com/san-kum/rocketsim/internal/rocket"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/storage"
	"github.com/san-kum/rocketsim/internal/tui"
)

var (
	dataDir  string
	logLevel string
	log      = logging.Nop()

	// controls; prompted for when not given
	thrust float64
	angle  float64
	fuel   float64

	// simulation settings
	dt        float64
	maxSteps  int
	height    float64
	gravity   float64
	dryMass   float64
	fuelRatio float64
	burnRate  float64

	output     string
	configFile string
	preset     string
	quiet      bool
	noStore    bool
	label      string

	// sweep
	angleGrid  string
	thrustGrid string
	metricName string
	minimize   bool
	topN       int
	workers    int

	// svg
	svgOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rocketsim",
		Short:         "2d rocket trajectory simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rocketsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&output, "out", config.DefaultOutput, "csv output path")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "do not print the record stream")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not keep the run in the data directory")
	runCmd.Flags().StringVar(&label, "label", "", "label stored with the run")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run a simulation with a live view",
		Args:  cobra.NoArgs,
		RunE:  watchSimulation,
	}
	addRunFlags(watchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over launch angle and thrust",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&angleGrid, "angles", "0:90:19", "angle grid lo:hi:n")
	sweepCmd.Flags().StringVar(&thrustGrid, "thrusts", "", "thrust grid lo:hi:n (default: the run thrust)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "range", "metric to optimise")
	sweepCmd.Flags().BoolVar(&minimize, "minimize", false, "minimise the metric instead of maximising")
	sweepCmd.Flags().IntVar(&topN, "top", 5, "number of trials to show")
	sweepCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "trials run in parallel")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the trajectory of a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tHEIGHT\tTHRUST\tANGLE\tFUEL")
			for _, name := range names {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.0f\t%s\t%s\t%s\n", name, p.LaunchHeight,
					optional(p.Controls.Thrust), optional(p.Controls.Angle), optional(p.Controls.Fuel))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, sweepCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func addRunFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64Var(&thrust, "thrust", 0, "thrust in newtons")
	cmd.Flags().Float64Var(&angle, "angle", 0, "launch angle in degrees from horizontal")
	cmd.Flags().Float64Var(&fuel, "fuel", 0, "initial fuel in kg")
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep")
	cmd.Flags().IntVar(&maxSteps, "steps", d.MaxSteps, "maximum number of steps")
	cmd.Flags().Float64Var(&height, "height", d.LaunchHeight, "launch height in m")
	cmd.Flags().Float64Var(&gravity, "gravity", d.Physics.Gravity, "gravitational acceleration")
	cmd.Flags().Float64Var(&dryMass, "dry-mass", d.Physics.DryMass, "vehicle mass without fuel")
	cmd.Flags().Float64Var(&fuelRatio, "fuel-ratio", d.Physics.FuelMassRatio, "mass per unit of fuel")
	cmd.Flags().Float64Var(&burnRate, "burn-rate", d.Physics.FuelConsumptionRate, "fuel per newton-second")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file and changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("height") {
		cfg.LaunchHeight = height
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("dry-mass") {
		cfg.Physics.DryMass = dryMass
	}
	if flags.Changed("fuel-ratio") {
		cfg.Physics.FuelMassRatio = fuelRatio
	}
	if flags.Changed("burn-rate") {
		cfg.Physics.FuelConsumptionRate = burnRate
	}
	if flags.Changed("thrust") {
		cfg.Controls.Thrust = config.Float(thrust)
	}
	if flags.Changed("angle") {
		cfg.Controls.Angle = config.Float(angle)
	}
	if flags.Changed("fuel") {
		cfg.Controls.Fuel = config.Float(fuel)
	}
	if f := flags.Lookup("out"); f != nil && f.Changed {
		cfg.Output = output
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveControls prompts on stdin for whatever the config left open.
func resolveControls(cfg *config.Config) (rocket.Controls, float64, error) {
	p := prompt.New(os.Stdin, os.Stdout)
	return p.Controls(prompt.Known{
		Thrust: cfg.Controls.Thrust,
		Angle:  cfg.Controls.Angle,
		Fuel:   cfg.Controls.Fuel,
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	controls, initialFuel, err := resolveControls(cfg)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, controls, initialFuel)

	sinks := make([]sim.Sink, 0, 3)
	closeAll := func() {
		for _, k := range sinks {
			k.Close()
		}
	}

	if !quiet {
		sinks = append(sinks, record.NewConsoleSink(os.Stdout))
	}

	csvSink, err := record.CreateCSV(cfg.Output)
	if err != nil {
		closeAll()
		return err
	}
	sinks = append(sinks, csvSink)

	var run *storage.Run
	if !noStore {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			closeAll()
			return err
		}
		run, err = st.Create(exp.Metadata(label))
		if err != nil {
			closeAll()
			return err
		}
		sinks = append(sinks, run)
	}

	if err := exp.Setup(sinks, metrics.Flight()); err != nil {
		closeAll()
		return err
	}
	if log.Core().Enabled(zap.DebugLevel) {
		exp.GetSimulator().AddObserver(stepLogger{log})
	}

	log.Info("starting simulation",
		zap.Float64("thrust", controls.Thrust),
		zap.Float64("angle", controls.AngleDeg),
		zap.Float64("fuel", initialFuel),
		zap.Float64("dt", cfg.Dt),
		zap.Int("max_steps", cfg.MaxSteps),
		zap.Float64("launch_height", cfg.LaunchHeight),
		zap.String("output", cfg.Output),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	elapsed := time.Since(start)
	if errors.Is(err, context.Canceled) && result != nil {
		log.Warn("simulation interrupted", zap.Int("steps", result.Steps))
		printSummary(result)
		return err
	}
	if err != nil {
		var stepErr *sim.StepError
		if errors.As(err, &stepErr) {
			log.Error("output failed", zap.Int("step", stepErr.Step), zap.Error(stepErr.Err))
		}
		return err
	}

	log.Info("simulation finished",
		zap.Stringer("reason", result.Reason),
		zap.Int("steps", result.Steps),
		zap.Duration("elapsed", elapsed),
	)
	if run != nil {
		log.Info("run stored", zap.String("id", run.ID()), zap.String("data", dataDir))
	}

	printSummary(result)
	return nil
}

type stepLogger struct{ l *zap.Logger }

func (s stepLogger) OnStep(r sim.Record) {
	s.l.Debug("step",
		zap.Int("i", r.Step),
		zap.Float64("t", r.Time),
		zap.Float64("x", r.State.X),
		zap.Float64("y", r.State.Y),
		zap.Float64("fuel", r.State.Fuel),
	)
}

func printSummary(result *sim.Result) {
	fmt.Printf("\nsteps: %d (%s)\n", result.Steps, result.Reason)
	fmt.Println("metrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.2f\n", name, result.Metrics[name])
	}
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	controls, initialFuel, err := resolveControls(cfg)
	if err != nil {
		return err
	}

	m := tui.NewModel(cfg.Params(), controls, cfg.SimConfig(), initialFuel)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	angles, err := parseGrid(angleGrid)
	if err != nil {
		return fmt.Errorf("--angles: %w", err)
	}

	names := []string{"angle"}
	ranges := [][]float64{angles}
	cfg.Controls.Angle = config.Float(0)
	if thrustGrid != "" {
		thrusts, err := parseGrid(thrustGrid)
		if err != nil {
			return fmt.Errorf("--thrusts: %w", err)
		}
		names = append(names, "thrust")
		ranges = append(ranges, thrusts)
		cfg.Controls.Thrust = config.Float(0)
	}

	controls, initialFuel, err := resolveControls(cfg)
	if err != nil {
		return err
	}

	runTrial := func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		c := controls
		c.AngleDeg = params["angle"]
		if v, ok := params["thrust"]; ok {
			c.Thrust = v
		}
		exp := experiment.New(cfg, c, initialFuel)
		if err := exp.Setup(nil, metrics.Flight()); err != nil {
			return nil, err
		}
		return exp.Run(ctx)
	}

	log.Info("starting sweep",
		zap.Strings("params", names),
		zap.String("metric", metricName),
		zap.Int("workers", workers),
	)

	g := optim.NewGridSearch(names, ranges)
	g.SetWorkers(workers)
	best, trials, err := g.Search(cmd.Context(), runTrial, metricName, !minimize)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ANGLE\tTHRUST\t%s\tSTEPS\tREASON\n", strings.ToUpper(metricName))
	for i, tr := range optim.Ranked(trials, !minimize) {
		if i >= topN {
			break
		}
		t := controls.Thrust
		if v, ok := tr.Params["thrust"]; ok {
			t = v
		}
		fmt.Fprintf(w, "%.2f\t%.0f\t%.2f\t%d\t%s\n", tr.Params["angle"], t, tr.Value, tr.Result.Steps, tr.Result.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.Info("sweep finished", zap.Int("trials", len(trials)), zap.Float64("best", best.Value))
	return nil
}

// parseGrid reads "lo:hi:n" or a comma separated list.
func parseGrid(s string) ([]float64, error) {
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("expected lo:hi:n, got %q", s)
		}
		lo, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, err
		}
		hi, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("grid size must be positive, got %d", n)
		}
		return optim.Linspace(lo, hi, n), nil
	}

	out := make([]float64, 0)
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tTHRUST\tANGLE\tFUEL\tSTEPS\tRESULT")

	for _, run := range runs {
		result := run.Reason
		if result == "" {
			result = run.Status
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.2f\t%.2f\t%d\t%s\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Controls.Thrust,
			run.Controls.Angle,
			run.Controls.Fuel,
			run.Steps,
			result,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	recs, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("controls: thrust %.0f N, angle %.2f deg, fuel %.2f kg\n", meta.Controls.Thrust, meta.Controls.Angle, meta.Controls.Fuel)
	fmt.Printf("samples: %d\n\n", len(recs))

	series := []struct {
		caption string
		value   func(sim.Record) float64
	}{
		{"altitude y (m) vs time", func(r sim.Record) float64 { return r.State.Y }},
		{"range x (m) vs time", func(r sim.Record) float64 { return r.State.X }},
		{"speed (m/s) vs time", func(r sim.Record) float64 { return r.State.Speed() }},
		{"fuel (kg) vs time", func(r sim.Record) float64 { return r.State.Fuel }},
	}

	for _, s := range series {
		data := make([]float64, len(recs))
		for i, r := range recs {
			data[i] = s.value(r)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println("trajectory (y vs x)")
	fmt.Print(export.TrajectoryASCII(recs, 70, 20))
	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	recs, err := storage.New(dataDir).LoadRecords(args[0])
	if err != nil {
		return err
	}

	if svgOut == "" {
		return export.WriteTrajectorySVG(os.Stdout, recs, export.DefaultSVGOptions())
	}

	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	if err := export.WriteTrajectorySVG(f, recs, export.DefaultSVGOptions()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info("svg written", zap.String("path", svgOut), zap.Int("records", len(recs)))
	return nil
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
