package guilt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
	"github.com/Sumatoshi-tech/guilt/pkg/observability"
)

// scenarioBackend models a change between v1 and v2 where kept.txt changes
// hands, added.txt only exists in v2, removed.txt only in v1, and logo.png
// is a modified binary.
func scenarioBackend() *fakeBackend {
	backend := newFakeBackend()
	backend.trees["v1"] = []string{"kept.txt", "removed.txt", "logo.png", "stable.txt"}
	backend.trees["v2"] = []string{"kept.txt", "added.txt", "logo.png", "stable.txt"}
	backend.diff = []gitcli.NumstatEntry{
		textEntry("kept.txt", 3, 2),
		textEntry("added.txt", 4, 0),
		textEntry("removed.txt", 0, 3),
		binaryEntry("logo.png"),
	}

	backend.text["v1:kept.txt"] = blameOutput("Alice", 5, "Bob", 2)
	backend.text["v2:kept.txt"] = blameOutput("Alice", 3, "Bob", 5)
	backend.text["v2:added.txt"] = blameOutput("Dave", 4)
	backend.text["v1:removed.txt"] = blameOutput("Carol", 3)
	backend.bytes["v1:logo.png"] = blameOutput("Alice", 30)
	backend.bytes["v2:logo.png"] = blameOutput("Alice", 10, "Ellen", 35)

	return backend
}

func TestRun_ComputesLineAndByteDeltas(t *testing.T) {
	t.Parallel()

	backend := scenarioBackend()

	report, err := guilt.Run(context.Background(), backend, guilt.Options{Since: "v1", Until: "v2", Workers: 4})
	require.NoError(t, err)

	assert.True(t, report.ByteBlame)
	assert.Equal(t, []guilt.Delta{
		{Author: "Dave", Since: 0, Until: 4},
		{Author: "Bob", Since: 2, Until: 5},
		{Author: "Alice", Since: 5, Until: 3},
		{Author: "Carol", Since: 3, Until: 0},
	}, report.Lines)
	assert.Equal(t, []guilt.Delta{
		{Author: "Ellen", Since: 0, Until: 35, Kind: guilt.KindByte},
		{Author: "Alice", Since: 30, Until: 10, Kind: guilt.KindByte},
	}, report.Bytes)

	assert.Equal(t, guilt.Stats{TextPaths: 3, BinaryPaths: 1, Jobs: 6, Duration: report.Stats.Duration}, report.Stats)
	assert.NotContains(t, backend.blamedKeys(), "v1:added.txt")
	assert.NotContains(t, backend.blamedKeys(), "v2:removed.txt")
	assert.NotContains(t, backend.blamedKeys(), "v1:stable.txt")
}

func TestRun_OldBackendIgnoresBinaries(t *testing.T) {
	t.Parallel()

	backend := scenarioBackend()
	backend.version = gitcli.Version{Major: 1, Minor: 7, Patch: 1}

	report, err := guilt.Run(context.Background(), backend, guilt.Options{Since: "v1", Until: "v2"})
	require.NoError(t, err)

	assert.False(t, report.ByteBlame)
	assert.Empty(t, report.Bytes)
	assert.Len(t, report.Lines, 4)
	assert.NotContains(t, backend.blamedKeys(), "v2:logo.png")
}

func TestRun_NoChanges(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.trees["HEAD"] = []string{"a"}

	report, err := guilt.Run(context.Background(), backend, guilt.Options{Since: "HEAD", Until: "HEAD"})
	require.NoError(t, err)

	assert.True(t, report.Empty())
	assert.Empty(t, backend.blamedKeys())
	assert.Equal(t, int32(1), backend.listCalls.Load())
}

func TestRun_MissingRevision(t *testing.T) {
	t.Parallel()

	_, err := guilt.Run(context.Background(), newFakeBackend(), guilt.Options{Since: "v1"})
	require.ErrorIs(t, err, guilt.ErrMissingRevision)
}

func TestRun_UnknownRevision(t *testing.T) {
	t.Parallel()

	backend := scenarioBackend()

	_, err := guilt.Run(context.Background(), backend, guilt.Options{Since: "v0", Until: "v2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve trees")
}

func TestRun_BlameFailureAbortsWithoutReport(t *testing.T) {
	t.Parallel()

	backend := scenarioBackend()
	backend.blameErr["v2:kept.txt"] = &gitcli.CommandError{Args: []string{"blame"}, Stderr: "fatal: bad object", ExitCode: 128}

	report, err := guilt.Run(context.Background(), backend, guilt.Options{Since: "v1", Until: "v2"})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "fatal: bad object")
}

func TestRun_EmitsSpansAndMetrics(t *testing.T) {
	t.Parallel()

	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))

	reader := sdkmetric.NewManualReader()
	metrics, err := observability.NewPipelineMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	_, err = guilt.Run(context.Background(), scenarioBackend(), guilt.Options{
		Since:   "v1",
		Until:   "v2",
		Tracer:  tp.Tracer("guilt"),
		Metrics: metrics,
	})
	require.NoError(t, err)

	names := make(map[string]int)
	for _, span := range spans.GetSpans() {
		names[span.Name]++
	}

	assert.Equal(t, 1, names[observability.SpanRun])
	assert.Equal(t, 6, names[observability.SpanBlame])

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.NotEmpty(t, rm.ScopeMetrics[0].Metrics)
}
