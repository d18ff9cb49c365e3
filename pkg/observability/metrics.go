package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricJobsTotal       = "guilt.blame.jobs.total"
	metricJobDuration     = "guilt.blame.job.duration.seconds"
	metricAttributedTotal = "guilt.blame.attributed.total"
	metricRunsTotal       = "guilt.runs.total"
	metricRunDuration     = "guilt.run.duration.seconds"
	metricDeltas          = "guilt.run.deltas"

	attrKind    = "kind"
	attrOutcome = "outcome"

	kindLine = "line"
	kindByte = "byte"
)

// durationBucketBoundaries covers 1ms blames of tiny files up to multi-minute
// byte blames of large binaries.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300}

// metricBuilder accumulates instrument creation errors so a batch of
// instruments needs a single error check.
type metricBuilder struct {
	meter metric.Meter
	err   error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{meter: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return c
}

func (b *metricBuilder) histogram(name, desc, unit string, bounds ...float64) metric.Float64Histogram {
	opts := []metric.Float64HistogramOption{
		metric.WithDescription(desc),
		metric.WithUnit(unit),
	}

	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}

	h, err := b.meter.Float64Histogram(name, opts...)
	b.setErr(name, err)

	return h
}

func (b *metricBuilder) gauge(name, desc, unit string) metric.Int64Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(desc), metric.WithUnit(unit))
	b.setErr(name, err)

	return g
}

func (b *metricBuilder) setErr(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}
}

// PipelineMetrics holds the OTel instruments of an ownership-delta run.
// All methods are safe to call on a nil receiver.
type PipelineMetrics struct {
	jobsTotal       metric.Int64Counter
	jobDuration     metric.Float64Histogram
	attributedTotal metric.Int64Counter
	runsTotal       metric.Int64Counter
	runDuration     metric.Float64Histogram
	deltas          metric.Int64Gauge
}

// NewPipelineMetrics creates the pipeline instruments from mt.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	b := newMetricBuilder(mt)

	pm := &PipelineMetrics{
		jobsTotal:       b.counter(metricJobsTotal, "Blame jobs by kind and outcome", "{job}"),
		jobDuration:     b.histogram(metricJobDuration, "Blame job duration in seconds", "s", durationBucketBoundaries...),
		attributedTotal: b.counter(metricAttributedTotal, "Lines or bytes attributed to an author", "{unit}"),
		runsTotal:       b.counter(metricRunsTotal, "Completed runs", "{run}"),
		runDuration:     b.histogram(metricRunDuration, "Run duration in seconds", "s", durationBucketBoundaries...),
		deltas:          b.gauge(metricDeltas, "Author deltas produced by the last run", "{delta}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return pm, nil
}

// RecordJob records one finished blame job.
func (pm *PipelineMetrics) RecordJob(ctx context.Context, kind, outcome string, duration time.Duration) {
	if pm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrOutcome, outcome),
	)

	pm.jobsTotal.Add(ctx, 1, attrs)
	pm.jobDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAttributed adds n attributed lines or bytes.
func (pm *PipelineMetrics) RecordAttributed(ctx context.Context, kind string, n int64) {
	if pm == nil {
		return
	}

	pm.attributedTotal.Add(ctx, n, metric.WithAttributes(attribute.String(attrKind, kind)))
}

// RecordRun records a completed run and the number of deltas of each kind.
func (pm *PipelineMetrics) RecordRun(ctx context.Context, duration time.Duration, lineDeltas, byteDeltas int) {
	if pm == nil {
		return
	}

	pm.runsTotal.Add(ctx, 1)
	pm.runDuration.Record(ctx, duration.Seconds())
	pm.deltas.Record(ctx, int64(lineDeltas), metric.WithAttributes(attribute.String(attrKind, kindLine)))
	pm.deltas.Record(ctx, int64(byteDeltas), metric.WithAttributes(attribute.String(attrKind, kindByte)))
}
