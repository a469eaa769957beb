package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "salesreport/internal/errors"
	"salesreport/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SheetMonthly     = "Monthly Sales"
	SheetTopProducts = "Top Products"
	SheetSummary     = "Summary"
)

// amountFormat is the built-in "#,##0.00" number format
const amountFormat = 4

// WorkbookExporter writes the report views into one xlsx file
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// Export overwrites outputPath with the Monthly Sales, Top Products and Summary sheets
func (w *WorkbookExporter) Export(report *domain.SalesReport, outputPath string) error {
	if report == nil {
		return apperrors.NewAppValidationError("report is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.build(f, report); err != nil {
		return apperrors.NewStorageError("failed to build workbook", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for "+outputPath, err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return apperrors.NewStorageError("failed to save workbook "+outputPath, err)
	}

	w.logger.Debug("Workbook written",
		slog.String("path", outputPath),
		slog.Int("months", len(report.Monthly)),
		slog.Int("products", len(report.TopProducts)))
	return nil
}

func (w *WorkbookExporter) build(f *excelize.File, report *domain.SalesReport) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetMonthly); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetTopProducts); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return err
	}

	monthly := make([][]interface{}, 0, len(report.Monthly))
	for _, m := range report.Monthly {
		monthly = append(monthly, []interface{}{m.Month.String(), m.Total.InexactFloat64(), m.Records})
	}
	if err := writeSheet(f, SheetMonthly, []interface{}{"Month", "Total Sales", "Records"}, monthly, headerStyle); err != nil {
		return err
	}
	if err := styleColumn(f, SheetMonthly, "B", len(monthly), amountStyle); err != nil {
		return err
	}

	products := make([][]interface{}, 0, len(report.TopProducts))
	for i, p := range report.TopProducts {
		products = append(products, []interface{}{i + 1, p.ProductCode, p.Total.InexactFloat64(), p.Records})
	}
	if err := writeSheet(f, SheetTopProducts, []interface{}{"Rank", "Product Code", "Total Sales", "Records"}, products, headerStyle); err != nil {
		return err
	}
	if err := styleColumn(f, SheetTopProducts, "C", len(products), amountStyle); err != nil {
		return err
	}

	total := decimal.Zero
	for _, m := range report.Monthly {
		total = total.Add(m.Total)
	}
	summary := [][]interface{}{
		{"Records loaded", report.Cleaning.Loaded},
		{"Dropped (missing date)", report.Cleaning.DroppedMissingDate},
		{"Dropped (duplicates)", report.Cleaning.DroppedDuplicates},
		{"Records kept", report.Cleaning.Kept},
		{"Months", len(report.Monthly)},
		{"Total sales", total.InexactFloat64()},
		{"Discount/quantity correlation", report.Correlation.String()},
		{"Correlation samples", report.Correlation.Samples},
	}
	if err := writeSheet(f, SheetSummary, []interface{}{"Metric", "Value"}, summary, headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "B7", "B7", amountStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return nil
}

// writeSheet writes a bold header row followed by rows starting at A2
func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d of %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

func styleColumn(f *excelize.File, sheet, column string, rows, style int) error {
	if rows == 0 {
		return nil
	}
	return f.SetCellStyle(sheet, column+"2", fmt.Sprintf("%s%d", column, rows+1), style)
}
