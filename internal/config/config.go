package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	BaseDir   string          `yaml:"base_dir" split_words:"true"`
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Report    ReportConfig    `yaml:"report"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// InputConfig describes the raw sales file
type InputConfig struct {
	Path       string `yaml:"path" split_words:"true" validate:"required"`
	Encoding   string `yaml:"encoding" split_words:"true" validate:"required"`
	DateColumn string `yaml:"date_column" split_words:"true" validate:"required"`
	Delimiter  string `yaml:"delimiter" split_words:"true" validate:"required,len=1"`
}

// OutputConfig contains output file names. Relative names resolve against Dir.
type OutputConfig struct {
	Dir                string `yaml:"dir" split_words:"true" validate:"required"`
	CleanedFile        string `yaml:"cleaned_file" split_words:"true" validate:"required"`
	MonthlyChart       string `yaml:"monthly_chart" split_words:"true" validate:"required"`
	TopProductsChart   string `yaml:"top_products_chart" split_words:"true" validate:"required"`
	MonthlySummary     string `yaml:"monthly_summary" split_words:"true"`
	TopProductsSummary string `yaml:"top_products_summary" split_words:"true"`
	Workbook           string `yaml:"workbook" split_words:"true"`
	Manifest           string `yaml:"manifest" split_words:"true"`
	ExtraExports       bool   `yaml:"extra_exports" split_words:"true"`
	BOMPrefix          bool   `yaml:"bom_prefix" split_words:"true"`
}

// ReportConfig controls the aggregate views
type ReportConfig struct {
	TopN int `yaml:"top_n" split_words:"true" validate:"min=1,max=1000"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" split_words:"true"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" split_words:"true"`
	TraceFile     string  `yaml:"trace_file" split_words:"true"`
	EnableMetrics bool    `yaml:"enable_metrics" split_words:"true"`
	MetricsFile   string  `yaml:"metrics_file" split_words:"true"`
	SampleRatio   float64 `yaml:"sample_ratio" split_words:"true" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and SALES_* environment variables, in increasing order
// of precedence. An empty configFile searches the default locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	// No default tags: unset variables keep file or default values.
	// No envconfig aliases either, they fall back to unprefixed names like PATH.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv exports variables from a .env file without overriding the environment
func loadDotEnv(filePath string) error {
	if !FileExists(filePath) {
		return nil
	}
	return godotenv.Load(filePath)
}

// Validate checks struct constraints and normalizes values
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required for output %q", c.Logging.Output)
	}
	if c.Telemetry.EnableTracing && c.Telemetry.TraceFile == "" {
		return fmt.Errorf("trace file is required when tracing is enabled")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"salesreport.yaml",
		"configs/salesreport.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:       DefaultInputFile,
			Encoding:   DefaultEncoding,
			DateColumn: DefaultDateColumn,
			Delimiter:  ",",
		},
		Output: OutputConfig{
			Dir:                DefaultOutputDir,
			CleanedFile:        "cleaned_sales_data.csv",
			MonthlyChart:       "monthly_sales.png",
			TopProductsChart:   "top_products.png",
			MonthlySummary:     "monthly_sales.csv",
			TopProductsSummary: "top_products.csv",
			Workbook:           "sales_report.xlsx",
			Manifest:           "run_manifest.json",
			ExtraExports:       true,
		},
		Report: ReportConfig{
			TopN: DefaultTopN,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: "logs/salesreport.log",
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			TraceFile:     "logs/salesreport_trace.json",
			EnableMetrics: true,
			MetricsFile:   "metrics.prom",
			SampleRatio:   1.0,
		},
	}
}
