// tabprep prepares the breast-cancer diagnostic CSV for model training: it drops
// identifier columns, encodes the diagnosis, imputes and scales the features and
// writes stratified train/test partitions.
//
// Usage:
//
//	tabprep [--config FILE] [--input PATH] [--output DIR] [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dcshock/tabprep/config"
	"github.com/dcshock/tabprep/observer"
	"github.com/dcshock/tabprep/pipeline"
	"github.com/dcshock/tabprep/prep"
	"github.com/dcshock/tabprep/table"
)

// version is set with ldflags at build time.
var version = "dev"

type flags struct {
	configFile  string
	input       string
	output      string
	fallbackDir string
	testSize    float64
	seed        int64
	imputeScope string
	labelPolicy string
	noStratify  bool
	metricsFile string
	databaseURL string
	logLevel    string
	logFormat   string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return report(cmd.ExecuteContext(ctx), stdout, stderr)
}

// report prints err and returns the process exit code. A missing input file or
// label column is reported on stdout; anything else goes to stderr.
func report(err error, stdout, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, table.ErrNotFound):
		fmt.Fprintf(stdout, "Error: input file not found (%v). Check the path.\n", err)
	case errors.Is(err, prep.ErrLabelMissing):
		fmt.Fprintf(stdout, "Error: %v.\n", err)
	default:
		fmt.Fprintln(stderr, "Error:", err)
	}
	return 1
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "tabprep",
		Short:         "Prepare the breast-cancer CSV into scaled train/test partitions",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			logger, err := newLogger(stdout, f.logLevel, f.logFormat)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, &f, logger)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "YAML run definition")
	fl.StringVar(&f.input, "input", prep.DefaultInput, "raw CSV path")
	fl.StringVar(&f.output, "output", prep.DefaultOutputDir, "output directory")
	fl.StringVar(&f.fallbackDir, "fallback-dir", "", "directory searched for the input's file name when the input path is missing (default: one level above the executable)")
	fl.Float64Var(&f.testSize, "test-size", prep.DefaultTestSize, "fraction of rows held out for test")
	fl.Int64Var(&f.seed, "seed", prep.DefaultSeed, "shuffle seed")
	fl.StringVar(&f.imputeScope, "impute-scope", string(prep.ImputeFull), "rows the imputer medians are fit on: full|train")
	fl.StringVar(&f.labelPolicy, "label-policy", string(prep.LabelStrict), "unmapped diagnosis values: strict|lenient")
	fl.BoolVar(&f.noStratify, "no-stratify", false, "split without preserving class proportions")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	fl.StringVar(&f.databaseURL, "database-url", "", "Postgres URL for the run journal")
	fl.StringVar(&f.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "debug|info|warn|error")
	fl.StringVar(&f.logFormat, "log-format", envOr("LOG_FORMAT", "text"), "text|json")
	return cmd
}

// loadConfig reads the config file (or defaults) and applies the flags that were set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input = f.input
	}
	if changed("output") {
		cfg.OutputDir = f.output
	}
	if changed("fallback-dir") {
		cfg.FallbackDir = f.fallbackDir
	}
	if changed("test-size") {
		cfg.TestSize = f.testSize
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("impute-scope") {
		cfg.ImputeScope = f.imputeScope
	}
	if changed("label-policy") {
		cfg.LabelPolicy = f.labelPolicy
	}
	if f.noStratify {
		cfg.Stratify = false
	}
	if cfg.FallbackDir == "" {
		cfg.FallbackDir = table.DefaultFallbackDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, f *flags, logger *slog.Logger) error {
	reg := config.NewRegistry()
	prep.Register(reg)
	p, err := config.BuildPipeline(reg, cfg)
	if err != nil {
		return err
	}

	stages := cfg.StageNames()
	observers := []pipeline.Observer{
		observer.NewLogObserver(logger, stages),
		observer.NewTraceObserver(nil, stages),
	}
	var metrics *observer.MetricsObserver
	if f.metricsFile != "" {
		metrics = observer.NewMetricsObserver(stages)
		observers = append(observers, metrics)
	}
	if f.databaseURL != "" {
		pool, err := pgxpool.New(ctx, f.databaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		journal := observer.NewDBObserver(pool, stages)
		if err := journal.EnsureSchema(ctx); err != nil {
			return err
		}
		observers = append(observers, journal)
	}

	logger.Info("preprocessing started", "input", cfg.Input, "output_dir", cfg.OutputDir)
	ctx = pipeline.WithLogger(ctx, logger)
	_, runErr := p.RunWithInput(ctx, prep.NewState(cfg.Options()), &pipeline.RunOptions{
		Observer: pipeline.MultiObserver(observers...),
	})
	if metrics != nil {
		if err := metrics.WriteTextfile(f.metricsFile); err != nil {
			logger.Warn("metrics not written", "path", f.metricsFile, "error", err)
		}
	}
	return runErr
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: use text or json", format)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
