// Package config provides centralized configuration management for salesreport.
// It handles loading configuration from multiple sources, validation, and
// resolves every input and output path of a run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by cmd/salesreport)
//	2. Environment variables, including those exported from a .env file
//	3. YAML configuration file (salesreport.yaml or configs/salesreport.yaml)
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_* for namespacing:
//
//	SALES_INPUT_PATH=data/sample_sales_data.csv
//	SALES_INPUT_ENCODING=latin1
//	SALES_OUTPUT_DIR=output
//	SALES_REPORT_TOP_N=10
//	SALES_LOGGING_LEVEL=debug
//	SALES_TELEMETRY_ENABLE_TRACING=true
//
// # Paths
//
// GetPaths resolves relative paths against the configured base directory
// (the working directory by default). Output file names resolve against the
// output directory unless they are absolute.
package config
