package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/guilt/pkg/observability"
)

func TestAttributeFilter_KeepsAllowedKeys(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), nil)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	_, span := tp.Tracer("test").Start(context.Background(), observability.SpanBlame)
	span.SetAttributes(
		attribute.String("guilt.path", "src/main.go"),
		attribute.String("guilt.author", "alice@example.com"),
		attribute.String("email", "bob@example.com"),
		attribute.String("host.name", "box"),
		attribute.Bool("error", true),
	)
	span.End()

	require.NoError(t, tp.ForceFlush(context.Background()))

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	keys := make(map[string]bool)
	for _, kv := range spans[0].Attributes {
		keys[string(kv.Key)] = true
	}

	assert.Equal(t, map[string]bool{"guilt.path": true, "error": true}, keys)
}
