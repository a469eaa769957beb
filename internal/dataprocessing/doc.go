// Package dataprocessing turns a raw sales export into the cleaned table and
// aggregate views the report is built from.
//
// # Architecture
//
// The package is organized into four components, applied in order:
//
// 1. Loader: decodes the input file and parses dates and amounts
// 2. Cleaner: drops undated records, then exact duplicates
// 3. Enricher: attaches the year-month bucket to every record
// 4. Analytics: monthly trend, top products and the discount correlation
//
// # Usage
//
//	loader, err := dataprocessing.NewLoader(cfg.Input, logger)
//	if err != nil {
//	    return err
//	}
//	result, err := loader.Load(ctx, "data/sample_sales_data.csv")
//	if err != nil {
//	    return err
//	}
//	stats := dataprocessing.Clean(result.Table)
//	dataprocessing.AssignYearMonth(result.Table)
//	report := dataprocessing.BuildReport(result.Table, 10, stats)
//
// # Data Flow
//
//	CSV File → Loader → SalesTable → Cleaner → Enricher → Analytics → SalesReport
//
// The cleaner and enricher mutate the table in place. Analytics never does.
//
// # Missing Values
//
// Blank or unparseable dates become the missing-date marker and are removed
// by the cleaner. Blank or unparseable amounts are kept as SQL-style nulls:
// sums skip them and the discount of such a record is undefined.
//
// # Error Handling
//
// Loader failures are typed application errors (see internal/errors):
//
//   - ENCODING when a cell cannot be decoded with the configured encoding
//   - SCHEMA when the header lacks a required column
//   - PARSING for malformed CSV or rows wider than the header
//   - NOT_FOUND when the input file does not exist
package dataprocessing
