package exporter

import (
	"log/slog"

	"salesreport/pkg/contracts/domain"
)

// SummaryExporter writes the aggregate views as small CSV files
type SummaryExporter struct {
	csvWriter *CSVWriter
}

// NewSummaryExporter creates a summary exporter writing under baseDir
func NewSummaryExporter(baseDir string, logger *slog.Logger) *SummaryExporter {
	return &SummaryExporter{
		csvWriter: NewCSVWriter(baseDir, logger),
	}
}

// ExportMonthly writes Month,TotalSales,Records in chronological order
func (s *SummaryExporter) ExportMonthly(months []domain.MonthlySales, outputPath string) error {
	records := make([][]string, 0, len(months))
	for _, m := range months {
		records = append(records, []string{
			m.Month.String(),
			formatDecimal(m.Total),
			formatInt(m.Records),
		})
	}

	return s.csvWriter.WriteSimpleCSV(outputPath, []string{"Month", "TotalSales", "Records"}, records)
}

// ExportTopProducts writes Rank,ProductCode,TotalSales,Records, best first
func (s *SummaryExporter) ExportTopProducts(products []domain.ProductSales, outputPath string) error {
	records := make([][]string, 0, len(products))
	for i, p := range products {
		records = append(records, []string{
			formatInt(i + 1),
			p.ProductCode,
			formatDecimal(p.Total),
			formatInt(p.Records),
		})
	}

	return s.csvWriter.WriteSimpleCSV(outputPath, []string{"Rank", "ProductCode", "TotalSales", "Records"}, records)
}
