package guilt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
	"github.com/Sumatoshi-tech/guilt/pkg/observability"
)

// Options configure a run.
type Options struct {
	Since string
	Until string

	Blame        gitcli.BlameOptions
	Workers      int
	SkipVendored bool

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.PipelineMetrics
}

// Stats summarize the work a run performed.
type Stats struct {
	TextPaths   int
	BinaryPaths int
	Jobs        int
	Duration    time.Duration
}

// Report is the outcome of a run: line and byte deltas, each sorted with
// CompareDeltas and never mixed.
type Report struct {
	Since string
	Until string

	Lines []Delta
	Bytes []Delta

	// ByteBlame reports whether the backend could attribute binary content.
	ByteBlame bool

	Stats Stats
}

// Empty reports whether the report holds no delta of either kind.
func (r *Report) Empty() bool {
	return len(r.Lines) == 0 && len(r.Bytes) == 0
}

// Run computes the ownership deltas between opts.Since and opts.Until.
func Run(ctx context.Context, backend Backend, opts Options) (*Report, error) {
	if opts.Since == "" || opts.Until == "" {
		return nil, ErrMissingRevision
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("guilt")
	}

	ctx, span := tracer.Start(ctx, observability.SpanRun,
		trace.WithAttributes(
			attribute.String("guilt.since", opts.Since),
			attribute.String("guilt.until", opts.Until),
		))
	defer span.End()

	start := time.Now()

	report, err := run(ctx, backend, opts, logger, tracer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	report.Stats.Duration = time.Since(start)
	opts.Metrics.RecordRun(ctx, report.Stats.Duration, len(report.Lines), len(report.Bytes))

	span.SetAttributes(
		attribute.Int("guilt.jobs", report.Stats.Jobs),
		attribute.Int("guilt.line_deltas", len(report.Lines)),
		attribute.Int("guilt.byte_deltas", len(report.Bytes)),
	)

	return report, nil
}

func run(ctx context.Context, backend Backend, opts Options, logger *slog.Logger, tracer trace.Tracer) (*Report, error) {
	report := &Report{
		Since:     opts.Since,
		Until:     opts.Until,
		ByteBlame: SupportsByteBlame(backend),
	}

	if !report.ByteBlame {
		logger.InfoContext(ctx, "backend predates byte blame, binary files ignored",
			"version", backend.Version().String())
	}

	trees, err := resolveTrees(ctx, NewTreeResolver(backend), opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	changes, err := ClassifyChanges(ctx, backend, opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	report.Stats.TextPaths = len(changes.TextPaths)
	report.Stats.BinaryPaths = len(changes.BinaryPaths)

	if changes.Empty() {
		logger.DebugContext(ctx, "no changes between revisions")

		return report, nil
	}

	buckets := NewBuckets()
	jobs := Schedule(changes, opts.Since, opts.Until, trees, buckets, ScheduleOptions{
		ByteBlame:    report.ByteBlame,
		SkipVendored: opts.SkipVendored,
	})
	report.Stats.Jobs = len(jobs)

	logger.DebugContext(ctx, "blame jobs scheduled",
		"text_paths", len(changes.TextPaths),
		"binary_paths", len(changes.BinaryPaths),
		"jobs", len(jobs))

	executor := NewExecutor(backend,
		WithWorkers(opts.Workers),
		WithBlameOptions(opts.Blame),
		WithLogger(logger),
		WithTracer(tracer),
		WithMetrics(opts.Metrics),
	)

	err = executor.Run(ctx, jobs)
	if err != nil {
		return nil, err
	}

	report.Lines = ReduceBuckets(buckets.LineSince, buckets.LineUntil, KindLine)
	report.Bytes = ReduceBuckets(buckets.ByteSince, buckets.ByteUntil, KindByte)

	return report, nil
}

func resolveTrees(ctx context.Context, resolver *TreeResolver, since, until string) (Trees, error) {
	var trees Trees

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tree, err := resolver.Resolve(gctx, since)
		trees.Since = tree

		return err
	})

	g.Go(func() error {
		tree, err := resolver.Resolve(gctx, until)
		trees.Until = tree

		return err
	})

	err := g.Wait()
	if err != nil {
		return Trees{}, fmt.Errorf("resolve trees: %w", err)
	}

	return trees, nil
}
