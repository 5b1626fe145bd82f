package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "mindcore"

// Metrics holds all mindcore metric instruments.
type Metrics struct {
	TasksSubmitted   metric.Int64Counter
	TasksCompleted   metric.Int64Counter
	TasksFailed      metric.Int64Counter
	TasksCancelled   metric.Int64Counter
	PipelineDuration metric.Float64Histogram
	InterpretErrors  metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksSubmitted, err = meter.Int64Counter("mindcore.tasks.submitted",
		metric.WithDescription("Number of tasks submitted"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("mindcore.tasks.completed",
		metric.WithDescription("Number of tasks completed"))
	if err != nil {
		return nil, err
	}

	m.TasksFailed, err = meter.Int64Counter("mindcore.tasks.failed",
		metric.WithDescription("Number of tasks failed"))
	if err != nil {
		return nil, err
	}

	m.TasksCancelled, err = meter.Int64Counter("mindcore.tasks.cancelled",
		metric.WithDescription("Number of tasks cancelled"))
	if err != nil {
		return nil, err
	}

	m.PipelineDuration, err = meter.Float64Histogram("mindcore.pipeline.duration_seconds",
		metric.WithDescription("End-to-end submit pipeline duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.InterpretErrors, err = meter.Int64Counter("mindcore.interpret.errors",
		metric.WithDescription("Number of failed interpretation calls"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
