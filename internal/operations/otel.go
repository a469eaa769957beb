package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salesreport/internal/infrastructure"
)

const (
	TracerName = "salesreport.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer over the given providers.
// Nil providers give a tracer that records nothing.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return &OperationTracer{tracer: tracenoop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &OperationTracer{
		tracer:  providers.Tracer,
		metrics: metrics,
	}, nil
}

// TraceRun creates a span for the entire run
func (ot *OperationTracer) TraceRun(ctx context.Context, runID string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "operation.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("operation.id", runID)),
	)
}

// EndRun finishes the run span and counts the run by status
func (ot *OperationTracer) EndRun(ctx context.Context, span trace.Span, status OperationStatus, err error) {
	span.SetAttributes(attribute.String("operation.status", string(status)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	ot.metrics.RecordRun(ctx, string(status))
	span.End()
}

// TraceStep creates a span for one step, named after the step ID
func (ot *OperationTracer) TraceStep(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "operation.step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", runID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
}

// EndStep finishes a step span and records the stage metrics
func (ot *OperationTracer) EndStep(ctx context.Context, span trace.Span, stepID string, records int, d time.Duration, err error) {
	span.SetAttributes(
		attribute.Int("step.records", records),
		attribute.Float64("step.duration_seconds", d.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	ot.metrics.RecordStage(ctx, stepID, records, d, err)
	span.End()
}
