package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/corotrap/internal/analysis"
	"github.com/san-kum/corotrap/internal/batch"
	"github.com/san-kum/corotrap/internal/config"
	"github.com/san-kum/corotrap/internal/dynamo"
	"github.com/san-kum/corotrap/internal/experiment"
	"github.com/san-kum/corotrap/internal/storage"
	"github.com/san-kum/corotrap/internal/units"
	"github.com/san-kum/corotrap/internal/viz"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runOrbit(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	steps := cfg.SimConfig().Steps()
	exp.GetSimulator().AddObserver(&progress{logger: logger, every: max(steps/10, 1)})

	ctx, cancel := signalContext()
	defer cancel()

	name := storage.DumpName(cfg)
	level.Info(logger).Log("msg", "running", "run", name, "integrator", cfg.Integrator, "steps", steps)
	start := time.Now()

	out, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "completed", "elapsed", time.Since(start))

	if !noSave {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta, err := st.Save(cfg, out.Result, out.Summary)
		if err != nil {
			return err
		}
		level.Info(logger).Log("msg", "stored", "id", meta.ID, "dir", cfg.DataDir)
	}
	if dumpDir != "" {
		path := filepath.Join(dumpDir, name+storage.DumpExt)
		if err := storage.WriteDumpFile(path, out.Result.Trajectory); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "dump written", "path", path)
	}

	return report(out, name)
}

// progress logs the integration state at debug level every few steps.
type progress struct {
	logger log.Logger
	every  int
}

func (p *progress) OnStep(step int, s dynamo.PhaseState) {
	if step%p.every != 0 {
		return
	}
	level.Debug(p.logger).Log("msg", "step", "i", step, "t_gyr", units.YearsToGyr(s.T), "r_kpc", s.Radius())
}

// report prints the summary panel, writes the json export and draws plots
// as requested.
func report(out *experiment.Outcome, name string) error {
	if out.Summary != nil {
		fmt.Println(viz.RenderSummary(name, *out.Summary, out.Series.Lambda, out.Result.Metrics))
	} else {
		level.Warn(logger).Log("msg", "diagnostics unavailable", "run", name, "err", out.DiagErr)
		printMetrics(os.Stdout, out.Result.Metrics)
	}

	if jsonOut != "" {
		if out.Series == nil {
			return fmt.Errorf("no diagnostics to export: %w", out.DiagErr)
		}
		if err := storage.ExportJSONFile(jsonOut, out.Config, out.Series, out.Summary); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "exported", "path", jsonOut)
	}

	if showPlots {
		return drawPlots(out)
	}
	return nil
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	fmt.Fprintln(w, "metrics:")
	for _, name := range sortedKeys(metrics) {
		fmt.Fprintf(w, "  %s: %.6g\n", name, metrics[name])
	}
}

func drawPlots(out *experiment.Outcome) error {
	fr, err := viz.ParseFrame(frameName)
	if err != nil {
		return err
	}
	p, err := viz.NewPortrait(out.Potential, out.Result.Trajectory, out.Rotating, fr)
	if err != nil {
		return err
	}
	fmt.Println(viz.RenderPortrait(p, plotWidth, plotWidth/2, braille))
	if poincare {
		fmt.Println(viz.PoincareSectionView(analysis.PoincareSection(out.Rotating), plotWidth, plotWidth/2))
	}
	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(viz.PortraitToSVG(p, 800)), 0644); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "portrait written", "path", svgOut)
	}

	if out.Series == nil {
		return nil
	}
	if len(out.Series.ERan) > 0 && out.Series.ERan[0] == 0 {
		level.Warn(logger).Log("msg", "random energy starts at zero, E_ran panel skipped")
	}
	plots, err := viz.PropertyPlots(out.Series, viz.PlotSize{Width: plotWidth, Height: plotHeight})
	if errors.Is(err, viz.ErrNothingToPlot) {
		level.Warn(logger).Log("msg", "no finite series to plot")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(plots)
	return nil
}

// loadOutcome accepts a dump file or a stored run ID.
func loadOutcome(arg string) (*experiment.Outcome, string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		cfg, err := storage.ParseDumpName(arg)
		if err != nil {
			return nil, "", err
		}
		traj, err := storage.ReadDumpFile(arg)
		if err != nil {
			return nil, "", err
		}
		out, err := experiment.FromDump(cfg, traj)
		return out, storage.DumpName(cfg), err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(arg)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", arg, err)
	}
	traj, err := st.LoadTrajectory(arg)
	if err != nil {
		return nil, "", err
	}
	out, err := experiment.FromDump(meta.Config, traj)
	if err != nil {
		return nil, "", err
	}
	out.Result.Metrics = meta.Metrics
	return out, meta.Name, nil
}

func diagnose(cmd *cobra.Command, args []string) error {
	out, name, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	return report(out, name)
}

func plotOrbit(cmd *cobra.Command, args []string) error {
	out, name, err := loadOutcome(args[0])
	if err != nil {
		return err
	}
	if !viewer {
		return drawPlots(out)
	}
	v, err := viz.NewViewer(name, out.Potential, out.Result.Trajectory, out.Rotating, out.Series)
	if err != nil {
		return err
	}
	return viz.RunViewer(v)
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
	fmt.Fprintln(w, "ID\tTIME\tINTEG\tSTEPS\tCLASS\tLAMBDA_C\tNAME")
	for _, run := range runs {
		class := run.Class
		if class == "" {
			class = "NA"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.4f\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Steps,
			class,
			run.LambdaC,
			run.Name,
		)
	}
	return w.Flush()
}

func showResonances(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	pot := exp.Potential()
	res := pot.Resonances()
	lo, hi := pot.CaptureBand()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	row := func(label string, r float64) {
		if r <= 0 || math.IsNaN(r) {
			fmt.Fprintf(w, "%s\t-\n", label)
			return
		}
		fmt.Fprintf(w, "%s\t%.4f kpc\n", label, r)
	}
	row("inner Lindblad", res.InnerLindblad)
	row("inner ultraharmonic", res.InnerUltraharmonic)
	row("corotation", res.Corotation)
	row("outer ultraharmonic", res.OuterUltraharmonic)
	row("outer Lindblad", res.OuterLindblad)
	fmt.Fprintf(w, "pattern speed\t%.6g rad/yr\n", pot.PatternSpeed())
	fmt.Fprintf(w, "H_cr\t%.6g (km/s)^2\n", pot.Hcr())
	fmt.Fprintf(w, "A(CR)\t%.6g (km/s)^2\n", pot.AmplitudeAtCorotation())
	fmt.Fprintf(w, "capture band\t%.6g .. %.6g\n", lo, hi)
	return w.Flush()
}

// expandBatch lists every configuration of a batch file: the explicit runs
// followed by the sweep over the base. A file with neither runs the base.
func expandBatch(b *config.Batch) ([]*config.Config, error) {
	cfgs := append([]*config.Config(nil), b.Runs...)
	if len(b.Sweep) > 0 {
		sweep, err := batch.NewSweep(b.Sweep)
		if err != nil {
			return nil, err
		}
		swept, err := sweep.Expand(b.Base)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, swept...)
	}
	if len(cfgs) == 0 {
		cfgs = append(cfgs, b.Base)
	}
	return cfgs, nil
}

func tableWriter() (io.Writer, func() error, error) {
	if tableOut == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(tableOut)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func writeTable(rows []batch.Row) error {
	w, closeFn, err := tableWriter()
	if err != nil {
		return err
	}
	if err := batch.WriteTable(w, rows); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := config.LoadBatch(args[0])
	if err != nil {
		return err
	}
	cfgs, err := expandBatch(b)
	if err != nil {
		return err
	}

	n := b.Workers
	if cmd.Flags().Changed("workers") {
		n = workers
	}
	opts := []batch.Option{batch.WithWorkers(n), batch.WithLogger(log.With(logger, "component", "batch"))}
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		opts = append(opts, batch.WithStore(st))
	}

	ctx, cancel := signalContext()
	defer cancel()

	rows, err := batch.NewRunner(opts...).Run(ctx, cfgs)
	if err != nil {
		return err
	}
	return writeTable(rows)
}

func buildTable(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	rows, err := batch.NewRunner(batch.WithLogger(log.With(logger, "component", "table"))).FromDumps(ctx, args[0])
	if err != nil {
		return err
	}
	return writeTable(rows)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = reg.ListIntegrators()
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tTIME\tCLASS\tLAMBDA_C\tJACOBI_DRIFT\tLZ_DRIFT\tFINAL_R")

	for _, name := range names {
		cfg := base.Clone()
		cfg.Integrator = name
		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return err
		}

		start := time.Now()
		out, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		class, lambdaC := "NA", math.NaN()
		if out.Summary != nil {
			class, lambdaC = out.Summary.Class.String(), out.Summary.LambdaC
		}
		traj := out.Result.Trajectory
		fmt.Fprintf(w, "%s\t%v\t%s\t%.4f\t%.3e\t%.3e\t%.4f\n",
			name,
			elapsed.Round(time.Millisecond),
			class,
			lambdaC,
			out.Result.Metrics["jacobi_drift"],
			out.Result.Metrics["lz_drift"],
			traj[len(traj)-1].Radius(),
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tX0\tY0\tVX0\tVY0")
	for _, name := range config.ListPresets() {
		s := config.GetPreset(name).InitState
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\n", name, s.X, s.Y, s.VX, s.VY)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	level.Info(logger).Log("msg", "config written", "path", args[0])
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
