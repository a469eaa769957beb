package exporter

import (
	"log/slog"

	"salesreport/pkg/contracts/domain"
)

// TableExporter writes the cleaned, enriched sales table
type TableExporter struct {
	csvWriter *CSVWriter
	bom       bool
}

// NewTableExporter creates a table exporter writing under baseDir
func NewTableExporter(baseDir string, bom bool, logger *slog.Logger) *TableExporter {
	return &TableExporter{
		csvWriter: NewCSVWriter(baseDir, logger),
		bom:       bom,
	}
}

// ExportCleaned overwrites outputPath with every input column plus YearMonth.
// It returns the number of records written.
func (e *TableExporter) ExportCleaned(table *domain.SalesTable, outputPath string) (int, error) {
	var header []string
	var records []domain.SalesRecord
	dateColumn := -1
	if table != nil {
		header, records, dateColumn = table.Header, table.Records, table.DateColumn
	}

	stream, err := e.csvWriter.CreateStreamWriter(outputPath, e.headers(header), e.bom)
	if err != nil {
		return 0, err
	}

	dateOnly := datesAreMidnight(records)
	for _, record := range records {
		if err := stream.WriteRecord(e.recordToCSVRow(record, dateColumn, dateOnly)); err != nil {
			stream.Close()
			return 0, err
		}
	}

	if err := stream.Close(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// headers returns the input header with the bucket column appended
func (e *TableExporter) headers(header []string) []string {
	out := make([]string, 0, len(header)+1)
	out = append(out, header...)
	return append(out, domain.ColumnYearMonth)
}

// recordToCSVRow re-renders the date cell and appends the bucket
func (e *TableExporter) recordToCSVRow(record domain.SalesRecord, dateColumn int, dateOnly bool) []string {
	row := make([]string, 0, len(record.Fields)+1)
	row = append(row, record.Fields...)

	month := record.YearMonth
	if record.HasOrderDate() {
		if dateColumn >= 0 && dateColumn < len(row) {
			row[dateColumn] = formatDate(record.OrderDate, dateOnly)
		}
		if month.IsZero() {
			month = domain.YearMonthOf(record.OrderDate)
		}
	}

	if month.IsZero() {
		return append(row, "")
	}
	return append(row, month.String())
}

// datesAreMidnight reports whether every dated record has no time of day
func datesAreMidnight(records []domain.SalesRecord) bool {
	for _, record := range records {
		if !record.HasOrderDate() {
			continue
		}
		h, m, s := record.OrderDate.Clock()
		if h != 0 || m != 0 || s != 0 || record.OrderDate.Nanosecond() != 0 {
			return false
		}
	}
	return true
}
