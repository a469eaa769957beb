package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesreport/internal/config"
	"salesreport/internal/infrastructure"
	"salesreport/internal/operations"
	"salesreport/pkg/contracts"
)

const shutdownTimeout = 5 * time.Second

// options holds the command-line overrides
type options struct {
	configFile string
	input      string
	outputDir  string
	encoding   string
	version    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one pipeline run and returns the process exit status:
// 0 on success, 1 on any failure, 2 on invalid flags.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, opts, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "path to the YAML configuration file")
	fs.StringVar(&opts.input, "input", "", "raw sales CSV (overrides input.path)")
	fs.StringVar(&opts.outputDir, "output-dir", "", "directory for every output file (overrides output.dir)")
	fs.StringVar(&opts.encoding, "encoding", "", "text encoding of the input file (overrides input.encoding)")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments")
	}
	return opts, nil
}

// loadConfig loads the configuration and applies the flag overrides
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.input != "" {
		cfg.Input.Path = opts.input
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.encoding != "" {
		cfg.Input.Encoding = opts.encoding
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func execute(ctx context.Context, opts *options, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, paths.TraceFile), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
		}
	}()

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return err
	}

	steps, err := operations.NewPipelineSteps(operations.Pipeline{
		Paths:  paths,
		Input:  cfg.Input,
		TopN:   cfg.Report.TopN,
		BOM:    cfg.Output.BOMPrefix,
		Stdout: stdout,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	registry := operations.NewRegistry()
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return err
		}
	}

	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	logger.InfoContext(ctx, "Starting sales report",
		slog.String("version", config.AppVersion),
		slog.String("input", paths.InputFile),
		slog.String("encoding", cfg.Input.Encoding),
		slog.String("output_dir", paths.OutputDir))

	manager := operations.NewManager(registry, logger,
		operations.WithTracer(tracer),
		operations.WithManifest(paths.Manifest, paths.Outputs()))

	if err := manager.Run(ctx, operations.NewOperationState(runID)); err != nil {
		return err
	}

	if paths.MetricsFile != "" {
		if err := providers.WriteMetrics(paths.MetricsFile); err != nil {
			return err
		}
	}

	return nil
}
