package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/corotrap/internal/config"
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	integrator string
	stepTime   float64
	duration   float64
	grid       string
	arms       int
	pitch      float64
	corotation float64
	epsilon    float64
	x0, y0     float64
	vx0, vy0   float64
	noSave     bool
	dumpDir    string
	jsonOut    string
	showPlots  bool
	braille    bool
	plotWidth  int
	plotHeight int
	svgOut     string
	frameName  string
	poincare   bool
	viewer     bool
	workers    int
	tableOut   string

	logger log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "corotrap",
		Short: "orbits of stars around spiral corotation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate one orbit and classify it",
		Args:  cobra.NoArgs,
		RunE:  runOrbit,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&dumpDir, "dump", "", "also write the trajectory dump into this directory")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "export diagnostics as json to this file")
	runCmd.Flags().BoolVar(&showPlots, "plot", false, "draw property plots")
	addPlotFlags(runCmd)

	diagnoseCmd := &cobra.Command{
		Use:   "diagnose [run_id|dump_file]",
		Short: "recompute diagnostics of a stored run or a trajectory dump",
		Args:  cobra.ExactArgs(1),
		RunE:  diagnose,
	}
	diagnoseCmd.Flags().StringVar(&jsonOut, "json", "", "export diagnostics as json to this file")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id|dump_file]",
		Short: "draw the orbit portrait and property plots",
		Args:  cobra.ExactArgs(1),
		RunE:  plotOrbit,
	}
	addPlotFlags(plotCmd)
	plotCmd.Flags().BoolVarP(&viewer, "interactive", "i", false, "browse the plots full-screen")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	resonancesCmd := &cobra.Command{
		Use:   "resonances",
		Short: "print corotation, Lindblad and ultraharmonic radii",
		Args:  cobra.NoArgs,
		RunE:  showResonances,
	}
	addConfigFlags(resonancesCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [batch_file]",
		Short: "run many orbits in parallel and write the trapping table",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default from batch file)")
	batchCmd.Flags().StringVar(&tableOut, "out", "", "table file (default stdout)")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	tableCmd := &cobra.Command{
		Use:   "table [dump_dir]",
		Short: "build the trapping table from a directory of dumps and archives",
		Args:  cobra.ExactArgs(1),
		RunE:  buildTable,
	}
	tableCmd.Flags().StringVar(&tableOut, "out", "", "table file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "run one orbit with several integrators and compare",
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset initial conditions",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [config_file]",
		Short: "write a configuration file with the defaults",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, diagnoseCmd, plotCmd, listCmd, resonancesCmd,
		batchCmd, tableCmd, compareCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger() error {
	lvl, err := level.Parse(logLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.Allow(lvl))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return nil
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file (yaml or toml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	f.Float64Var(&stepTime, "dt", dynamo.DefaultStepTime, "step [yr]")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration [Gyr]")
	f.StringVar(&grid, "grid", config.DefaultGrid, "time grid: uniform, or linspace to reproduce older dumps")
	f.IntVar(&arms, "arms", config.DefaultArms, "number of spiral arms")
	f.Float64Var(&pitch, "pitch", config.DefaultPitch, "pitch angle [deg]")
	f.Float64Var(&corotation, "cr", config.DefaultCorotation, "corotation radius [kpc]")
	f.Float64Var(&epsilon, "eps", config.DefaultEpsilon, "spiral density contrast")
	f.Float64Var(&x0, "x0", 0, "initial x [kpc]")
	f.Float64Var(&y0, "y0", 0, "initial y [kpc]")
	f.Float64Var(&vx0, "vx0", 0, "initial vx [km/s]")
	f.Float64Var(&vy0, "vy0", 0, "initial vy [km/s]")
}

func addPlotFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&braille, "braille", false, "trace the orbit with braille dots")
	f.IntVar(&plotWidth, "width", viz.DefaultPlotSize.Width, "plot width")
	f.IntVar(&plotHeight, "height", viz.DefaultPlotSize.Height, "property plot height")
	f.StringVar(&svgOut, "svg", "", "also write the orbit portrait as svg to this file")
	f.StringVar(&frameName, "frame", viz.Rotating.String(), "portrait frame (inertial, rotating)")
	f.BoolVar(&poincare, "poincare", false, "also draw the x_R, vx_R section at upward y_R = 0 crossings")
}

// resolveConfig builds the run configuration: config file or preset first,
// then any flag given explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	}

	f := cmd.Flags()
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("dt") {
		cfg.StepTime = stepTime
	}
	if f.Changed("grid") {
		cfg.Grid = grid
	}
	if f.Changed("arms") {
		cfg.Galaxy.Arms = arms
	}
	overrides := []struct {
		flag, param string
		value       float64
	}{
		{"time", "t", duration},
		{"pitch", "th", pitch},
		{"cr", "CR", corotation},
		{"eps", "eps", epsilon},
		{"x0", "x0", x0},
		{"y0", "y0", y0},
		{"vx0", "vx0", vx0},
		{"vy0", "vy0", vy0},
	}
	for _, o := range overrides {
		if !f.Changed(o.flag) {
			continue
		}
		if err := cfg.Set(o.param, o.value); err != nil {
			return nil, err
		}
	}
	if f.Changed("data") {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
