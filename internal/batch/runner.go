package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/corotrap/internal/config"
	"github.com/san-kum/corotrap/internal/experiment"
	"github.com/san-kum/corotrap/internal/storage"
)

// Runner integrates independent orbits on a bounded pool of goroutines.
// The first simulation failure cancels the runs still outstanding.
type Runner struct {
	workers  int
	logger   log.Logger
	registry *experiment.Registry
	store    *storage.Store
}

type Option func(*Runner)

func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithLogger(l log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithStore saves every finished run.
func WithStore(s *storage.Store) Option {
	return func(r *Runner) { r.store = s }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		workers:  runtime.NumCPU(),
		logger:   log.NewNopLogger(),
		registry: experiment.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes cfgs and returns one row per configuration, in input order.
func (r *Runner) Run(ctx context.Context, cfgs []*config.Config) ([]Row, error) {
	rows := make([]Row, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	level.Info(r.logger).Log("msg", "batch started", "runs", len(cfgs), "workers", r.workers)
	start := time.Now()

	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			row, err := r.runOne(ctx, cfg)
			if err != nil {
				return fmt.Errorf("run %d (%s): %w", i, storage.DumpName(cfg), err)
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		level.Error(r.logger).Log("msg", "batch failed", "err", err)
		return nil, err
	}

	level.Info(r.logger).Log("msg", "batch finished", "runs", len(cfgs), "elapsed", time.Since(start))
	return rows, nil
}

func (r *Runner) runOne(ctx context.Context, cfg *config.Config) (Row, error) {
	name := storage.DumpName(cfg)
	logger := log.With(r.logger, "run", name)

	exp, err := experiment.New(cfg, r.registry)
	if err != nil {
		return Row{}, err
	}
	out, err := exp.Run(ctx)
	if err != nil {
		return Row{}, err
	}

	if r.store != nil {
		if _, err := r.store.Save(cfg, out.Result, out.Summary); err != nil {
			return Row{}, err
		}
	}

	return rowFromOutcome(logger, name, out), nil
}

func rowFromOutcome(logger log.Logger, name string, out *experiment.Outcome) Row {
	row := Row{Name: name, Config: out.Config, Lz: out.SampledLz()}
	if out.Summary != nil {
		row.Class = out.Summary.Class
		row.Classified = true
		level.Debug(logger).Log("msg", "classified", "class", row.Class, "lambda_c", out.Summary.LambdaC)
	} else {
		level.Warn(logger).Log("msg", "run not classified", "err", out.DiagErr)
	}
	return row
}

// FromDumps builds table rows from every dump under dir, including dumps
// inside tar archives. Run parameters come from the dump names.
func (r *Runner) FromDumps(ctx context.Context, dir string) ([]Row, error) {
	var rows []Row
	err := storage.ScanDumps(dir, func(d storage.Dump) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		cfg, err := storage.ParseDumpName(d.Name)
		if err != nil {
			level.Warn(r.logger).Log("msg", "skipping dump", "source", d.Source, "name", d.Name, "err", err)
			return nil
		}
		out, err := experiment.FromDump(cfg, d.Trajectory)
		if err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
		rows = append(rows, rowFromOutcome(log.With(r.logger, "run", d.Name), d.Name, out))
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortRows(rows)
	level.Info(r.logger).Log("msg", "table built from dumps", "dir", dir, "rows", len(rows))
	return rows, nil
}
