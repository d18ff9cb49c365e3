package config

import "time"

// Git backend defaults.
const (
	DefaultGitExecutable   = "git"
	DefaultGitByteTextconv = "xxd -p -c1"
	DefaultGitJobTimeout   = 5 * time.Minute
)

// Pipeline defaults.
const (
	DefaultPipelineWorkers      = 0
	DefaultPipelineSkipVendored = false
)

// Blame defaults.
const (
	DefaultBlameEmail            = false
	DefaultBlameIgnoreWhitespace = false
)

// Render defaults.
const (
	DefaultRenderFormat        = FormatText
	DefaultRenderColor         = ColorAuto
	DefaultRenderWidth         = 0
	DefaultRenderFallbackWidth = 80
	DefaultRenderHumanBytes    = false
)

// Logging defaults.
const (
	DefaultLoggingLevel = "warn"
	DefaultLoggingJSON  = false
)
