package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"salesreport/internal/config"
	apperrors "salesreport/internal/errors"
	"salesreport/pkg/contracts/domain"
)

// StageExecution records one step of a run
type StageExecution struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  string     `json:"duration"`
	Records   int        `json:"records"`
}

// RunManifest summarizes a successful run
type RunManifest struct {
	RunID       string                `json:"run_id"`
	Version     string                `json:"version"`
	Status      OperationStatus       `json:"status"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     time.Time             `json:"end_time"`
	Duration    string                `json:"duration"`
	Input       InputInfo             `json:"input"`
	Stages      []StageExecution      `json:"stages"`
	Outputs     []string              `json:"outputs"`
	Cleaning    domain.CleaningStats  `json:"cleaning"`
	Written     int                   `json:"written"`
	Months      int                   `json:"months"`
	TotalSales  decimal.Decimal       `json:"total_sales"`
	TopProducts []domain.ProductSales `json:"top_products"`
	Correlation domain.Correlation    `json:"correlation"`
}

// NewRunManifest builds the manifest from the final operation state
func NewRunManifest(state *OperationState, outputs []string) *RunManifest {
	m := &RunManifest{
		RunID:     state.ID,
		Version:   config.AppVersion,
		Status:    state.GetStatus(),
		StartTime: state.StartTime,
		Duration:  state.Duration().String(),
		Outputs:   outputs,
	}
	if state.EndTime != nil {
		m.EndTime = *state.EndTime
	}

	for _, step := range state.Steps() {
		step.mu.RLock()
		exec := StageExecution{
			ID:        step.ID,
			Name:      step.Name,
			Status:    step.Status,
			StartTime: step.StartTime,
			EndTime:   step.EndTime,
			Records:   step.Records,
		}
		step.mu.RUnlock()
		exec.Duration = step.Duration().String()
		m.Stages = append(m.Stages, exec)
	}

	if input, ok := contextValue[InputInfo](state, ContextKeyInput); ok {
		m.Input = input
	}
	if report, ok := contextValue[*domain.SalesReport](state, ContextKeyReport); ok {
		m.Cleaning = report.Cleaning
		m.Written = report.Written
		m.Months = len(report.Monthly)
		m.TopProducts = report.TopProducts
		m.Correlation = report.Correlation
		for _, month := range report.Monthly {
			m.TotalSales = m.TotalSales.Add(month.Total)
		}
	}

	return m
}

// SaveToFile saves the manifest to a JSON file
func (m *RunManifest) SaveToFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory for "+path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.NewStorageError("failed to write manifest file "+path, err)
	}
	return nil
}
