package operations

import (
	"context"
	"log/slog"
	"time"

	"salesreport/internal/infrastructure"
)

// logOperationStart logs the start of a run
func (m *Manager) logOperationStart(ctx context.Context, state *OperationState) {
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", state.ID),
		slog.Any("steps", m.registry.ListIDs()))
}

// logOperationComplete logs the completion of a run
func (m *Manager) logOperationComplete(ctx context.Context, state *OperationState) {
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("operation_id", state.ID),
		slog.String("status", string(state.GetStatus())),
		slog.Duration("duration", state.Duration()))
}

// logOperationError logs a run failure
func (m *Manager) logOperationError(ctx context.Context, state *OperationState, err error) {
	infrastructure.WithError(m.logger, err).ErrorContext(ctx, "operation_error",
		slog.String("operation_id", state.ID))
}

// logStageStart logs the start of a Step execution
func (m *Manager) logStageStart(ctx context.Context, stepID string) {
	m.logger.InfoContext(ctx, "stage_start",
		slog.String("step", stepID))
}

// logStageComplete logs the completion of a Step execution
func (m *Manager) logStageComplete(ctx context.Context, stepID string, records int, duration time.Duration) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("step", stepID),
		slog.Int("records", records),
		slog.Duration("duration", duration))
}

// logStageError logs a Step error
func (m *Manager) logStageError(ctx context.Context, stepID string, err error) {
	infrastructure.WithError(m.logger, err).ErrorContext(ctx, "stage_error",
		slog.String("step", stepID))
}
