package operations

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"salesreport/internal/infrastructure"
)

// Manager executes the registered steps in order
type Manager struct {
	registry     *Registry
	logger       *slog.Logger
	tracer       *OperationTracer
	manifestPath string
	outputs      []string
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithTracer sets the tracer used for run and step spans
func WithTracer(tracer *OperationTracer) ManagerOption {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithManifest writes a run manifest to path after a successful run.
// outputs lists the files the run produces.
func WithManifest(path string, outputs []string) ManagerOption {
	return func(m *Manager) {
		m.manifestPath = path
		m.outputs = outputs
	}
}

// NewManager creates a manager over registry
func NewManager(registry *Registry, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	noop, _ := NewOperationTracer(nil)
	m := &Manager{
		registry: registry,
		logger:   infrastructure.WithComponent(logger, "operations"),
		tracer:   noop,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes every step in registration order and stops at the first
// failure. Files written by earlier steps are left in place.
func (m *Manager) Run(ctx context.Context, state *OperationState) error {
	if state == nil {
		return NewValidationError("", "operation state is nil")
	}
	if m.registry.Count() == 0 {
		return NewValidationError("", "no steps registered")
	}

	ctx = infrastructure.WithRunID(ctx, state.ID)
	ctx, span := m.tracer.TraceRun(ctx, state.ID)

	state.Start()
	m.logOperationStart(ctx, state)

	for _, step := range m.registry.List() {
		if err := ctx.Err(); err != nil {
			return m.fail(ctx, span, state, NewCancellationError(step.ID(), err))
		}
		if err := m.executeStep(ctx, state, step); err != nil {
			return m.fail(ctx, span, state, err)
		}
	}

	state.Complete()

	if m.manifestPath != "" {
		manifest := NewRunManifest(state, m.outputs)
		if err := manifest.SaveToFile(m.manifestPath); err != nil {
			return m.fail(ctx, span, state, WrapError(err, "manifest", "failed to write run manifest"))
		}
		m.logger.DebugContext(ctx, "Run manifest saved", slog.String("path", m.manifestPath))
	}

	m.tracer.EndRun(ctx, span, OperationStatusCompleted, nil)
	m.logOperationComplete(ctx, state)
	return nil
}

// executeStep runs one step inside its own span
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := NewStepState(step.ID(), step.Name())
	state.SetStep(stepState)

	stepCtx, span := m.tracer.TraceStep(ctx, state.ID, step)
	stepState.Start()
	m.logStageStart(stepCtx, step.ID())

	if err := step.Execute(stepCtx, state); err != nil {
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			opErr = NewExecutionError(step.ID(), err)
		}
		stepState.Fail(opErr)
		m.tracer.EndStep(stepCtx, span, step.ID(), 0, stepState.Duration(), opErr)
		m.logStageError(stepCtx, step.ID(), opErr)
		return opErr
	}

	stepState.Complete()
	records := stepState.GetRecords()
	m.tracer.EndStep(stepCtx, span, step.ID(), records, stepState.Duration(), nil)
	m.logStageComplete(stepCtx, step.ID(), records, stepState.Duration())
	return nil
}

func (m *Manager) fail(ctx context.Context, span trace.Span, state *OperationState, err error) error {
	state.Fail(err)
	m.tracer.EndRun(ctx, span, OperationStatusFailed, err)
	m.logOperationError(ctx, state, err)
	return err
}
