package config

import "salesreport/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "salesreport"
	AppVersion = contracts.Version

	// Environment
	EnvPrefix  = "SALES"
	DotEnvFile = ".env"

	// File Paths (relative to the base directory)
	DefaultInputFile = "data/sample_sales_data.csv"
	DefaultOutputDir = "output"

	// Input format
	DefaultEncoding   = "latin1"
	DefaultDateColumn = "ORDERDATE"

	// Reporting
	DefaultTopN = 10

	// Log Settings
	DefaultLogLevel = "info"

	// Console messages
	MsgCleanedSaved = "✅ Cleaned data saved to %s"
	MsgPlotsSaved   = "✅ Plots saved in %s/: %s, %s"
	MsgCorrelation  = "Correlation between discount %% and quantity ordered: %s"
)
