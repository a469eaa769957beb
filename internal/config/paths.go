package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the resolved file paths of one run
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	BaseDir   string
	OutputDir string
	LogsDir   string

	InputFile string

	// Required outputs
	CleanedCSV       string
	MonthlyChart     string
	TopProductsChart string

	// Supplementary outputs (empty when disabled)
	MonthlySummaryCSV     string
	TopProductsSummaryCSV string
	Workbook              string
	Manifest              string
	MetricsFile           string
	TraceFile             string
	LogFile               string
}

// GetPaths resolves every configured path. Relative paths resolve against
// BaseDir, or the working directory when BaseDir is empty; output file names
// resolve against the output directory.
func GetPaths(cfg *Config) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	outputDir := resolve(base, cfg.Output.Dir)
	out := func(name string) string {
		if name == "" {
			return ""
		}
		return resolve(outputDir, name)
	}

	paths := &Paths{
		BaseDir:   base,
		OutputDir: outputDir,
		InputFile: resolve(base, cfg.Input.Path),

		CleanedCSV:       out(cfg.Output.CleanedFile),
		MonthlyChart:     out(cfg.Output.MonthlyChart),
		TopProductsChart: out(cfg.Output.TopProductsChart),
		Manifest:         out(cfg.Output.Manifest),
	}

	if cfg.Output.ExtraExports {
		paths.MonthlySummaryCSV = out(cfg.Output.MonthlySummary)
		paths.TopProductsSummaryCSV = out(cfg.Output.TopProductsSummary)
		paths.Workbook = out(cfg.Output.Workbook)
	}

	if cfg.Telemetry.EnableMetrics {
		paths.MetricsFile = out(cfg.Telemetry.MetricsFile)
	}
	if cfg.Telemetry.EnableTracing && cfg.Telemetry.TraceFile != "" {
		paths.TraceFile = resolve(base, cfg.Telemetry.TraceFile)
	}
	if cfg.Logging.Output != "console" && cfg.Logging.FilePath != "" {
		paths.LogFile = resolve(base, cfg.Logging.FilePath)
		paths.LogsDir = filepath.Dir(paths.LogFile)
	}

	return paths, nil
}

// resolve joins a relative path onto dir
func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Outputs lists every output file of the run in the order they are written
func (p *Paths) Outputs() []string {
	all := []string{
		p.CleanedCSV,
		p.MonthlySummaryCSV,
		p.TopProductsSummaryCSV,
		p.MonthlyChart,
		p.TopProductsChart,
		p.Workbook,
		p.Manifest,
		p.MetricsFile,
	}
	outputs := make([]string, 0, len(all))
	for _, path := range all {
		if path != "" {
			outputs = append(outputs, path)
		}
	}
	return outputs
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("input",
			slog.String("file", p.InputFile),
			slog.Bool("exists", FileExists(p.InputFile)),
		),
		slog.Group("report_files",
			slog.String("cleaned_csv", p.CleanedCSV),
			slog.String("monthly_chart", p.MonthlyChart),
			slog.String("top_products_chart", p.TopProductsChart),
			slog.String("workbook", p.Workbook),
			slog.String("manifest", p.Manifest),
		))
}
