package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "mindcore"

// StartPipelineSpan starts a span covering one submit pipeline run.
func StartPipelineSpan(ctx context.Context, category string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pipeline",
		trace.WithAttributes(
			attribute.String("task.category", category),
		),
	)
}

// StartInterpretSpan starts a span for the gateway interpretation call.
func StartInterpretSpan(ctx context.Context, category string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "interpret",
		trace.WithAttributes(
			attribute.String("task.category", category),
		),
	)
}

// StartExecuteSpan starts a span for the executor run of a task.
func StartExecuteSpan(ctx context.Context, taskID, category string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "execute",
		trace.WithAttributes(
			attribute.String("task.id", taskID),
			attribute.String("task.category", category),
		),
	)
}
