package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
	// EmitPlan signals that a set of stages is planned for execution.
	EmitPlan(ctx context.Context, stageNames []string)
	// Close flushes any buffered progress.
	Close() error
}

// Span represents a unit of work. Writes are recorded as the span's output.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// MarkCached marks the span as served from the layer store.
	MarkCached()
}
