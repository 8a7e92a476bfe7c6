package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/cachesim/config"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/report"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/sarchlab/cachesim/trace"
	"github.com/sarchlab/cachesim/tracing"
)

const progressInterval = 1000000

// loadOptions merges the run options from, in increasing precedence, the
// defaults, the YAML file, the .env file, the environment, and the flags.
func loadOptions(flags *pflag.FlagSet) (*config.Options, error) {
	opts := config.NewDefault()

	if path, _ := flags.GetString("config"); path != "" {
		if err := opts.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	if err := opts.LoadFromEnv(); err != nil {
		return nil, err
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "trace":
			opts.Trace = f.Value.String()
		case "record":
			opts.Output.Record = f.Value.String()
		case "csv":
			opts.Output.CSV = f.Value.String()
		case "metrics":
			opts.Output.Metrics = f.Value.String()
		case "quiet":
			opts.Quiet = f.Value.String() == "true"
		case "breakdown":
			opts.Breakdown = f.Value.String() == "true"
		case "log-level":
			opts.LogLevel = f.Value.String()
		}
	})

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

func openTrace(cmd *cobra.Command, path string) (trace.Source, func() error, error) {
	if path == trace.StdinPath {
		return trace.NewReader(cmd.InOrStdin()), func() error { return nil }, nil
	}

	f, err := trace.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return f, f.Close, nil
}

// outputs holds the optional recordings of a run.
type outputs struct {
	recorder  datarecording.DataRecorder
	csv       *tracing.CSVTraceWriter
	collector *monitoring.Collector
}

func (o *outputs) attach(
	b simulation.Builder,
	opts *config.Options,
) (simulation.Builder, error) {
	if opts.Output.Record != "" {
		recorder, err := datarecording.New(opts.Output.Record)
		if err != nil {
			return b, err
		}

		o.recorder = recorder
		b = b.WithHook(tracing.NewDBTracer(recorder))
	}

	if opts.Output.CSV != "" {
		o.csv = tracing.NewCSVTraceWriter(opts.Output.CSV)
		if err := o.csv.Init(); err != nil {
			return b, err
		}

		b = b.WithHook(o.csv)
	}

	if opts.Output.Metrics != "" {
		collector, err := monitoring.NewCollector()
		if err != nil {
			return b, err
		}

		o.collector = collector
		b = b.WithHook(collector)
	}

	return b, nil
}

func (o *outputs) close(opts *config.Options, runErr error) error {
	var errs []error

	if o.recorder != nil {
		errs = append(errs, o.recorder.Close())
	}

	if o.csv != nil {
		errs = append(errs, o.csv.Close())
	}

	if o.collector != nil && runErr == nil {
		errs = append(errs, o.collector.WriteToTextfile(opts.Output.Metrics))
	}

	return errors.Join(errs...)
}

func runSimulation(cmd *cobra.Command, args []string) (err error) {
	cfg, err := parseCacheConfig(args)
	if err != nil {
		return err
	}

	opts, err := loadOptions(cmd.Flags())
	if err != nil {
		return err
	}

	level, _ := opts.Level()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
		&slog.HandlerOptions{Level: level}))

	src, closeTrace, err := openTrace(cmd, opts.Trace)
	if err != nil {
		return err
	}
	defer closeTrace()

	store, err := cache.MakeBuilder().
		WithConfig(cfg).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	report.PrintConfiguration(stdout, store.Config(), store.Geometry())

	b := simulation.MakeBuilder().
		WithStore(store).
		WithLogger(logger).
		WithHook(sim.NewLogHook(logger, slog.LevelDebug)).
		WithHook(monitoring.NewProgressBar(logger, progressInterval))
	if !opts.Quiet {
		b = b.WithHook(report.NewAccessPrinter(stdout))
	}

	out := &outputs{}
	defer func() {
		if closeErr := out.close(opts, err); err == nil && closeErr != nil {
			err = fmt.Errorf("closing outputs: %w", closeErr)
		}
	}()

	b, err = out.attach(b, opts)
	if err != nil {
		return err
	}

	simulator, err := b.Build()
	if err != nil {
		return err
	}

	logger.Info("simulation started",
		"run", simulator.ID(),
		"trace", opts.Trace,
		"capacity", cfg.Capacity,
		"mapping", cfg.Mapping.String(),
		"organization", cfg.Organization.String())

	stats, err := simulator.Run(src)
	if err != nil {
		return err
	}

	report.PrintStatistics(stdout, stats)
	if opts.Breakdown {
		report.PrintBreakdown(stdout, stats)
	}

	return nil
}
