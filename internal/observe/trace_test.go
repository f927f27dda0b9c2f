package observe

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestCorrelationID_NoSpan(t *testing.T) {
	t.Parallel()

	if got := CorrelationID(context.Background()); got != "" {
		t.Errorf("got %q, want empty string without an active span", got)
	}
}

func TestCorrelationID_WithSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	got := CorrelationID(ctx)
	if got == "" {
		t.Fatal("expected a correlation ID inside an active span")
	}
	if want := span.SpanContext().TraceID().String(); got != want {
		t.Errorf("got %q, want trace ID %q", got, want)
	}
}

func TestLogger_WithoutSpanIsDefault(t *testing.T) {
	t.Parallel()

	if Logger(context.Background()) == nil {
		t.Fatal("Logger returned nil")
	}
}
