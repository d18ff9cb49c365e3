// Package commands implements the guilt CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/guilt/pkg/config"
	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
	"github.com/Sumatoshi-tech/guilt/pkg/observability"
	"github.com/Sumatoshi-tech/guilt/pkg/report"
	"github.com/Sumatoshi-tech/guilt/pkg/terminal"
	"github.com/Sumatoshi-tech/guilt/pkg/version"
)

// ErrMissingRevisions indicates the since/until positional arguments are absent.
var ErrMissingRevisions = errors.New("two revisions are required: <since> <until>")

// envOTLPHeaders is the standard OTel env var for exporter headers.
const envOTLPHeaders = "OTEL_EXPORTER_OTLP_HEADERS"

// BackendOpener connects to the repository the run inspects.
type BackendOpener func(ctx context.Context, opts gitcli.Options) (guilt.Backend, error)

// ObservabilityInit builds the telemetry providers for a run.
type ObservabilityInit func(cfg observability.Config) (observability.Providers, error)

// GuiltCommand holds the configuration for the root command.
type GuiltCommand struct {
	configPath      string
	directory       string
	email           bool
	whitespace      bool
	workers         int
	format          string
	color           string
	width           int
	skipVendored    bool
	humanBytes      bool
	metricsTextfile string
	verbose         bool
	quiet           bool

	open    BackendOpener
	initObs ObservabilityInit
}

// NewRootCommand creates the guilt root command.
func NewRootCommand() *cobra.Command {
	return newRootCommandWithDeps(openRepository, observability.Init)
}

func openRepository(ctx context.Context, opts gitcli.Options) (guilt.Backend, error) {
	repo, err := gitcli.Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	return repo, nil
}

// newRootCommandWithDeps creates the root command with injectable
// dependencies for testing.
func newRootCommandWithDeps(open BackendOpener, initObs ObservabilityInit) *cobra.Command {
	gc := &GuiltCommand{
		open:    open,
		initObs: initObs,
	}

	cobraCmd := &cobra.Command{
		Use:   "guilt [flags] <since> <until>",
		Short: "Report how code ownership changed between two revisions",
		Long: `Report how code ownership changed between two revisions.

Every file touched between <since> and <until> is blamed at both revisions.
Each author's line count at <until> minus their count at <since> is printed
as a proportional bar chart. Binary files are attributed byte by byte when
the installed git supports it.`,
		Example: `  guilt HEAD~10 HEAD
  guilt --email --format json v1.0.0 v2.0.0`,
		Args:          validateRevisions,
		RunE:          gc.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cobraCmd.Flags()
	flags.StringVar(&gc.configPath, "config", "", "Path to config file (default: .guilt.yaml in CWD or $HOME)")
	flags.StringVarP(&gc.directory, "directory", "C", ".", "Run as if started in this directory")
	flags.BoolVarP(&gc.email, "email", "e", config.DefaultBlameEmail, "Attribute to author emails instead of names")
	flags.BoolVarP(&gc.whitespace, "whitespace", "w", config.DefaultBlameIgnoreWhitespace,
		"Ignore whitespace-only changes when attributing lines")
	flags.IntVarP(&gc.workers, "workers", "j", config.DefaultPipelineWorkers, "Concurrent blame jobs (0 = number of CPUs)")
	flags.StringVar(&gc.format, "format", config.DefaultRenderFormat, "Output format: text, table, json, yaml, html")
	flags.StringVar(&gc.color, "color", config.DefaultRenderColor, "Colorize output: auto, always, never")
	flags.IntVar(&gc.width, "width", config.DefaultRenderWidth, "Output width in columns (0 = terminal width)")
	flags.BoolVar(&gc.skipVendored, "skip-vendored", config.DefaultPipelineSkipVendored, "Skip vendored paths")
	flags.BoolVar(&gc.humanBytes, "human-bytes", config.DefaultRenderHumanBytes, "Print byte counts in SI units")
	flags.StringVar(&gc.metricsTextfile, "metrics-textfile", "", "Write run metrics in Prometheus text format to this path")
	flags.BoolVarP(&gc.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&gc.quiet, "quiet", "q", false, "Only log errors")

	cobraCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cobraCmd
}

func validateRevisions(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w, got %d argument(s)", ErrMissingRevisions, len(args))
	}

	return nil
}

func (gc *GuiltCommand) run(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(gc.configPath)
	if err != nil {
		return err
	}

	gc.overlay(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}

	providers, err := gc.initObs(gc.observabilityConfig(cfg))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.WithoutCancel(ctx)))
	}()

	logger := providers.Logger

	backend, err := gc.open(ctx, gitcli.Options{
		Executable:   cfg.Git.Executable,
		Dir:          gc.directory,
		ByteTextconv: cfg.Git.ByteTextconv,
		Timeout:      cfg.Git.JobTimeout,
	})
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "opened repository",
		"root", backend.Root(), "git_version", backend.Version().String())

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	rep, err := guilt.Run(ctx, backend, guilt.Options{
		Since: args[0],
		Until: args[1],
		Blame: gitcli.BlameOptions{
			Email:            cfg.Blame.Email,
			IgnoreWhitespace: cfg.Blame.IgnoreWhitespace,
		},
		Workers:      cfg.Pipeline.Workers,
		SkipVendored: cfg.Pipeline.SkipVendored,
		Logger:       logger,
		Tracer:       providers.Tracer,
		Metrics:      metrics,
	})
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "run complete",
		"text_paths", rep.Stats.TextPaths,
		"binary_paths", rep.Stats.BinaryPaths,
		"jobs", rep.Stats.Jobs,
		"duration", rep.Stats.Duration.Round(time.Millisecond))

	return gc.write(cmd, cfg, rep)
}

func (gc *GuiltCommand) write(cmd *cobra.Command, cfg *config.Config, rep *guilt.Report) error {
	out := cmd.OutOrStdout()

	term := terminal.NewConfig(out, terminal.ColorMode(cfg.Render.Color), cfg.Render.Width, cfg.Render.FallbackWidth)

	err := report.Write(out, rep, report.Options{
		Format: cfg.Render.Format,
		Text: report.TextOptions{
			Width:      term.Width,
			Color:      term.Color,
			HumanBytes: cfg.Render.HumanBytes,
		},
	})
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// overlay applies explicitly set flags on top of the loaded configuration.
func (gc *GuiltCommand) overlay(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("email") {
		cfg.Blame.Email = gc.email
	}

	if flags.Changed("whitespace") {
		cfg.Blame.IgnoreWhitespace = gc.whitespace
	}

	if flags.Changed("workers") {
		cfg.Pipeline.Workers = gc.workers
	}

	if flags.Changed("skip-vendored") {
		cfg.Pipeline.SkipVendored = gc.skipVendored
	}

	if flags.Changed("format") {
		cfg.Render.Format = gc.format
	}

	if flags.Changed("color") {
		cfg.Render.Color = gc.color
	}

	if flags.Changed("width") {
		cfg.Render.Width = gc.width
	}

	if flags.Changed("human-bytes") {
		cfg.Render.HumanBytes = gc.humanBytes
	}

	if flags.Changed("metrics-textfile") {
		cfg.Observability.MetricsTextfile = gc.metricsTextfile
	}

	switch {
	case gc.verbose:
		cfg.Logging.Level = "debug"
	case gc.quiet:
		cfg.Logging.Level = "error"
	}
}

func (gc *GuiltCommand) observabilityConfig(cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)

	if len(obsCfg.OTLPHeaders) == 0 {
		obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
	}

	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.TraceVerbose = cfg.Observability.TraceVerbose
	obsCfg.MetricsTextfile = cfg.Observability.MetricsTextfile
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.JSON

	return obsCfg
}
