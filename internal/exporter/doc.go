// Package exporter writes the sales report outputs to disk.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and an optional UTF-8 BOM for Excel compatibility.
//
// TableExporter: Writes the cleaned table with every input column plus the
// YearMonth bucket.
//
// SummaryExporter: Writes the monthly trend and top products as small CSV files.
//
// WorkbookExporter: Writes the same views plus cleaning counters into one xlsx
// workbook.
//
// Example usage:
//
//	tableExporter := exporter.NewTableExporter(paths.OutputDir, false, logger)
//	n, err := tableExporter.ExportCleaned(table, paths.CleanedCSV)
//
//	summaries := exporter.NewSummaryExporter(paths.OutputDir, logger)
//	err = summaries.ExportMonthly(report.Monthly, paths.MonthlySummaryCSV)
//
// Every write overwrites its destination and creates missing parent
// directories. Failures are STORAGE application errors.
package exporter
