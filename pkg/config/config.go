// Package config provides YAML-based configuration for guilt.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Config is the top-level configuration struct for guilt.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Git           GitConfig           `mapstructure:"git"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Blame         BlameConfig         `mapstructure:"blame"`
	Render        RenderConfig        `mapstructure:"render"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// GitConfig holds settings for the git backend process.
type GitConfig struct {
	Executable   string        `mapstructure:"executable"`
	ByteTextconv string        `mapstructure:"byte_textconv"`
	JobTimeout   time.Duration `mapstructure:"job_timeout"`
}

// PipelineConfig holds job execution knobs.
type PipelineConfig struct {
	Workers      int  `mapstructure:"workers"`
	SkipVendored bool `mapstructure:"skip_vendored"`
}

// BlameConfig holds attribution settings.
type BlameConfig struct {
	Email            bool `mapstructure:"email"`
	IgnoreWhitespace bool `mapstructure:"ignore_whitespace"`
}

// RenderConfig holds report output settings.
type RenderConfig struct {
	Format        string `mapstructure:"format"`
	Color         string `mapstructure:"color"`
	Width         int    `mapstructure:"width"`
	FallbackWidth int    `mapstructure:"fallback_width"`
	HumanBytes    bool   `mapstructure:"human_bytes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// SlogLevel converts Level to a slog level. Unknown values map to warn.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return slog.LevelWarn
	}

	return level
}

// ObservabilityConfig holds telemetry export settings.
type ObservabilityConfig struct {
	OTLPEndpoint    string `mapstructure:"otlp_endpoint"`
	OTLPHeaders     string `mapstructure:"otlp_headers"`
	OTLPInsecure    bool   `mapstructure:"otlp_insecure"`
	TraceVerbose    bool   `mapstructure:"trace_verbose"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`
}

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	validFormats   = []string{FormatText, FormatTable, FormatJSON, FormatYAML, FormatHTML}
	validColors    = []string{ColorAuto, ColorAlways, ColorNever}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Sentinel errors for configuration validation.
var (
	// ErrEmptyExecutable indicates git.executable is blank.
	ErrEmptyExecutable = errors.New("git.executable must not be empty")
	// ErrEmptyTextconv indicates git.byte_textconv is blank.
	ErrEmptyTextconv = errors.New("git.byte_textconv must not be empty")
	// ErrInvalidJobTimeout indicates the job timeout is not positive.
	ErrInvalidJobTimeout = errors.New("git.job_timeout must be positive")
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("pipeline.workers must be non-negative")
	// ErrInvalidFormat indicates an unknown render.format.
	ErrInvalidFormat = errors.New("render.format must be one of text, table, json, yaml, html")
	// ErrInvalidColor indicates an unknown render.color.
	ErrInvalidColor = errors.New("render.color must be one of auto, always, never")
	// ErrInvalidWidth indicates a negative render.width.
	ErrInvalidWidth = errors.New("render.width must be non-negative")
	// ErrInvalidFallbackWidth indicates the fallback width is not positive.
	ErrInvalidFallbackWidth = errors.New("render.fallback_width must be positive")
	// ErrInvalidLogLevel indicates an unknown logging.level.
	ErrInvalidLogLevel = errors.New("logging.level must be one of debug, info, warn, error")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	gitErr := c.validateGit()
	if gitErr != nil {
		return gitErr
	}

	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Pipeline.Workers)
	}

	renderErr := c.validateRender()
	if renderErr != nil {
		return renderErr
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return nil
}

func (c *Config) validateGit() error {
	if strings.TrimSpace(c.Git.Executable) == "" {
		return ErrEmptyExecutable
	}

	if strings.TrimSpace(c.Git.ByteTextconv) == "" {
		return ErrEmptyTextconv
	}

	if c.Git.JobTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidJobTimeout, c.Git.JobTimeout)
	}

	return nil
}

func (c *Config) validateRender() error {
	if !slices.Contains(validFormats, c.Render.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Render.Format)
	}

	if !slices.Contains(validColors, c.Render.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Render.Color)
	}

	if c.Render.Width < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, c.Render.Width)
	}

	if c.Render.FallbackWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFallbackWidth, c.Render.FallbackWidth)
	}

	return nil
}
