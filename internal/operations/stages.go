package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"salesreport/internal/charts"
	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	"salesreport/internal/exporter"
	"salesreport/pkg/contracts/domain"
)

// Pipeline holds what the sales steps need to run
type Pipeline struct {
	Paths  *config.Paths
	Input  config.InputConfig
	TopN   int
	BOM    bool
	Stdout io.Writer // confirmation and correlation lines
	Logger *slog.Logger
}

// NewPipelineSteps builds load, clean, enrich_write and report in order
func NewPipelineSteps(p Pipeline) ([]Step, error) {
	if p.Paths == nil {
		return nil, NewValidationError("", "paths are required")
	}
	if p.Stdout == nil {
		p.Stdout = io.Discard
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.TopN <= 0 {
		p.TopN = config.DefaultTopN
	}

	loader, err := dataprocessing.NewLoader(p.Input, p.Logger)
	if err != nil {
		return nil, err
	}

	out := NewConsole(p.Stdout, p.Paths.BaseDir)

	return []Step{
		NewLoadStep(loader, p.Paths.InputFile, p.Input.Encoding, p.Logger),
		NewCleanStep(p.Logger),
		NewEnrichWriteStep(exporter.NewTableExporter(p.Paths.OutputDir, p.BOM, p.Logger), p.Paths.CleanedCSV, out, p.Logger),
		NewReportStep(p.Paths, p.TopN, out, p.Logger),
	}, nil
}

// Console prints the user-facing lines with paths relative to the base directory
type Console struct {
	w       io.Writer
	baseDir string
}

// NewConsole creates a console writing to w
func NewConsole(w io.Writer, baseDir string) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w, baseDir: baseDir}
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.w, format+"\n", args...)
}

// display shortens path to be relative to the base directory when it lies inside it
func (c *Console) display(path string) string {
	if c.baseDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(c.baseDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// setRecords stores the record count on the step's state
func setRecords(state *OperationState, stepID string, n int) {
	if step := state.GetStep(stepID); step != nil {
		step.SetRecords(n)
	}
}

func tableFrom(state *OperationState, stepID string) (*domain.SalesTable, error) {
	table, ok := contextValue[*domain.SalesTable](state, ContextKeyTable)
	if !ok || table == nil {
		return nil, NewInvalidStateError(stepID, ContextKeyTable)
	}
	return table, nil
}

// LoadStep reads and parses the raw sales file
type LoadStep struct {
	BaseStage
	loader   *dataprocessing.Loader
	path     string
	encoding string
	logger   *slog.Logger
}

// NewLoadStep creates the load step
func NewLoadStep(loader *dataprocessing.Loader, path, encoding string, logger *slog.Logger) *LoadStep {
	return &LoadStep{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad),
		loader:    loader,
		path:      path,
		encoding:  encoding,
		logger:    logger,
	}
}

// Execute loads the table into the operation context
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyInput, InputInfo{
		Path:      s.path,
		Encoding:  s.encoding,
		SizeBytes: result.SizeBytes,
		Checksum:  result.Checksum,
	})
	state.SetContext(ContextKeyTable, result.Table)
	setRecords(state, s.ID(), result.Table.Len())
	return nil
}

// CleanStep drops records without a date and exact duplicates
type CleanStep struct {
	BaseStage
	logger *slog.Logger
}

// NewCleanStep creates the clean step
func NewCleanStep(logger *slog.Logger) *CleanStep {
	return &CleanStep{
		BaseStage: NewBaseStage(StepIDClean, StepNameClean),
		logger:    logger,
	}
}

// Execute cleans the table in place
func (s *CleanStep) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}

	stats := dataprocessing.Clean(table)
	state.SetContext(ContextKeyCleaning, stats)
	setRecords(state, s.ID(), stats.Kept)

	s.logger.InfoContext(ctx, "Cleaned sales data",
		slog.Int("loaded", stats.Loaded),
		slog.Int("dropped_missing_date", stats.DroppedMissingDate),
		slog.Int("dropped_duplicates", stats.DroppedDuplicates),
		slog.Int("kept", stats.Kept))
	return nil
}

// EnrichWriteStep assigns month buckets and writes the cleaned CSV
type EnrichWriteStep struct {
	BaseStage
	exporter *exporter.TableExporter
	path     string
	console  *Console
	logger   *slog.Logger
}

// NewEnrichWriteStep creates the enrich_write step
func NewEnrichWriteStep(tableExporter *exporter.TableExporter, path string, out *Console, logger *slog.Logger) *EnrichWriteStep {
	return &EnrichWriteStep{
		BaseStage: NewBaseStage(StepIDEnrichWrite, StepNameEnrichWrite),
		exporter:  tableExporter,
		path:      path,
		console:   out,
		logger:    logger,
	}
}

// Execute enriches the table and writes it to disk
func (s *EnrichWriteStep) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}

	dataprocessing.AssignYearMonth(table)

	written, err := s.exporter.ExportCleaned(table, s.path)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyWritten, written)
	setRecords(state, s.ID(), written)
	s.logger.InfoContext(ctx, "Cleaned data written",
		slog.String("path", s.path),
		slog.Int("records", written))
	s.console.printf(config.MsgCleanedSaved, s.console.display(s.path))
	return nil
}

// ReportStep computes the aggregates, renders the charts and prints the correlation
type ReportStep struct {
	BaseStage
	paths     *config.Paths
	topN      int
	renderer  *charts.Renderer
	summaries *exporter.SummaryExporter
	workbook  *exporter.WorkbookExporter
	console   *Console
	logger    *slog.Logger
}

// NewReportStep creates the report step. Supplementary exports are written
// only for the non-empty paths.
func NewReportStep(paths *config.Paths, topN int, out *Console, logger *slog.Logger) *ReportStep {
	return &ReportStep{
		BaseStage: NewBaseStage(StepIDReport, StepNameReport),
		paths:     paths,
		topN:      topN,
		renderer:  charts.NewRenderer(logger),
		summaries: exporter.NewSummaryExporter(paths.OutputDir, logger),
		workbook:  exporter.NewWorkbookExporter(logger),
		console:   out,
		logger:    logger,
	}
}

// Execute writes the report outputs
func (s *ReportStep) Execute(ctx context.Context, state *OperationState) error {
	table, err := tableFrom(state, s.ID())
	if err != nil {
		return err
	}
	stats, ok := contextValue[domain.CleaningStats](state, ContextKeyCleaning)
	if !ok {
		return NewInvalidStateError(s.ID(), ContextKeyCleaning)
	}
	written, ok := contextValue[int](state, ContextKeyWritten)
	if !ok {
		return NewInvalidStateError(s.ID(), ContextKeyWritten)
	}

	report := dataprocessing.BuildReport(table, s.topN, stats)
	report.Written = written

	if err := s.renderer.MonthlyTrend(report.Monthly, s.paths.MonthlyChart); err != nil {
		return err
	}
	if err := s.renderer.TopProducts(report.TopProducts, s.topN, s.paths.TopProductsChart); err != nil {
		return err
	}
	s.console.printf(config.MsgPlotsSaved,
		s.console.display(filepath.Dir(s.paths.MonthlyChart)),
		filepath.Base(s.paths.MonthlyChart),
		filepath.Base(s.paths.TopProductsChart))

	if err := s.writeSupplementary(report); err != nil {
		return err
	}

	state.SetContext(ContextKeyReport, report)
	setRecords(state, s.ID(), table.Len())

	s.logger.InfoContext(ctx, "Report built",
		slog.Int("months", len(report.Monthly)),
		slog.Int("top_products", len(report.TopProducts)),
		slog.String("correlation", report.Correlation.String()),
		slog.Int("correlation_samples", report.Correlation.Samples))
	s.console.printf(config.MsgCorrelation, report.Correlation.String())
	return nil
}

func (s *ReportStep) writeSupplementary(report *domain.SalesReport) error {
	if s.paths.MonthlySummaryCSV != "" {
		if err := s.summaries.ExportMonthly(report.Monthly, s.paths.MonthlySummaryCSV); err != nil {
			return err
		}
	}
	if s.paths.TopProductsSummaryCSV != "" {
		if err := s.summaries.ExportTopProducts(report.TopProducts, s.paths.TopProductsSummaryCSV); err != nil {
			return err
		}
	}
	if s.paths.Workbook != "" {
		if err := s.workbook.Export(report, s.paths.Workbook); err != nil {
			return err
		}
	}
	return nil
}
