package guilt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
	"github.com/Sumatoshi-tech/guilt/pkg/observability"
)

// authorPattern captures the author field of a blame line: everything after
// the first opening parenthesis up to the space preceding a YYYY-MM-DD date.
var authorPattern = regexp.MustCompile(`^[^(]*\((.*?) \d{4}-\d{2}-\d{2}`)

// Job outcomes reported to metrics and logs.
const (
	OutcomeAttributed = "attributed"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)

// ExtractAuthor returns the trimmed author of one blame line.
func ExtractAuthor(line string) (string, bool) {
	m := authorPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}

	return strings.TrimSpace(m[1]), true
}

// TallyAuthors counts the blame lines attributed to each author.
// Lines the pattern does not match are ignored.
func TallyAuthors(output []byte) map[string]int {
	tally := make(map[string]int)

	for line := range bytes.SplitSeq(output, []byte{'\n'}) {
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			continue
		}

		author, ok := ExtractAuthor(string(line))
		if !ok {
			continue
		}

		tally[author]++
	}

	return tally
}

// Executor runs blame jobs against a backend with bounded concurrency.
type Executor struct {
	backend Backend
	blame   gitcli.BlameOptions
	workers int
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.PipelineMetrics
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithWorkers bounds the number of jobs in flight. Values below one mean
// one worker per CPU.
func WithWorkers(n int) ExecutorOption {
	return func(e *Executor) {
		e.workers = n
	}
}

// WithBlameOptions sets the attribution mode passed to the backend.
func WithBlameOptions(opts gitcli.BlameOptions) ExecutorOption {
	return func(e *Executor) {
		e.blame = opts
	}
}

// WithLogger sets the executor logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the tracer used for per-job spans.
func WithTracer(tracer trace.Tracer) ExecutorOption {
	return func(e *Executor) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithMetrics sets the job metric instruments.
func WithMetrics(metrics *observability.PipelineMetrics) ExecutorOption {
	return func(e *Executor) {
		e.metrics = metrics
	}
}

// NewExecutor creates an Executor over backend.
func NewExecutor(backend Backend, opts ...ExecutorOption) *Executor {
	e := &Executor{
		backend: backend,
		logger:  slog.Default(),
		tracer:  nooptrace.NewTracerProvider().Tracer("guilt"),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}

	return e
}

// Run executes every job and returns once all have finished or been
// abandoned. The first failure cancels the jobs still pending and is returned.
func (e *Executor) Run(ctx context.Context, jobs []BlameJob) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			return e.runJob(gctx, job)
		})
	}

	err := g.Wait()
	if err != nil {
		return err
	}

	// A cancelled parent stops scheduling without any job failing.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("blame: %w", ctxErr)
	}

	return nil
}

func (e *Executor) runJob(ctx context.Context, job BlameJob) error {
	ctx, span := e.tracer.Start(ctx, observability.SpanBlame,
		trace.WithAttributes(
			attribute.String("guilt.path", job.File.Path),
			attribute.String("guilt.revision", job.File.Revision),
			attribute.String("guilt.kind", job.Kind.String()),
		))
	defer span.End()

	start := time.Now()

	outcome, err := e.attribute(ctx, job)

	e.metrics.RecordJob(ctx, job.Kind.String(), outcome, time.Since(start))
	span.SetAttributes(attribute.String("guilt.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	return nil
}

func (e *Executor) attribute(ctx context.Context, job BlameJob) (string, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return OutcomeFailed, fmt.Errorf("%s: %w", job, ctxErr)
	}

	output, err := e.blameOutput(ctx, job)

	switch {
	case errors.Is(err, gitcli.ErrNoSuchPath):
		e.logger.DebugContext(ctx, "blame target missing, skipping", "job", job.String())

		return OutcomeSkipped, nil
	case err != nil:
		return OutcomeFailed, fmt.Errorf("%s: %w", job, err)
	case len(output) == 0:
		e.logger.DebugContext(ctx, "empty blame output, skipping", "job", job.String())

		return OutcomeSkipped, nil
	case !utf8.Valid(output):
		return OutcomeFailed, fmt.Errorf(
			"%w of %s; this may be caused by a mislabeled binary file",
			ErrInvalidEncoding, job.File)
	}

	tally := TallyAuthors(output)
	job.Bucket.Merge(tally)

	total := 0
	for _, n := range tally {
		total += n
	}

	e.metrics.RecordAttributed(ctx, job.Kind.String(), int64(total))
	e.logger.DebugContext(ctx, "blame attributed",
		"job", job.String(), "authors", len(tally), "units", total)

	return OutcomeAttributed, nil
}

func (e *Executor) blameOutput(ctx context.Context, job BlameJob) ([]byte, error) {
	if job.Kind == KindByte {
		return e.backend.BlameBytes(ctx, job.File.Path, job.File.Revision, e.blame) //nolint:wrapcheck // wrapped by caller.
	}

	return e.backend.BlameText(ctx, job.File.Path, job.File.Revision, e.blame) //nolint:wrapcheck // wrapped by caller.
}
