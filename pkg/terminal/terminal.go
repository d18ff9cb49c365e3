// Package terminal detects terminal capabilities and renders display-width
// aware, optionally coloured text.
package terminal

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// DefaultWidth is used when no width can be detected.
const DefaultWidth = 80

// ColorMode selects when colour escapes are emitted.
type ColorMode string

// Colour modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds terminal rendering configuration.
type Config struct {
	Width int
	Color bool
}

// NewConfig inspects w and returns the width and colour settings to render
// with. A positive width overrides detection; fallback is used when w is not
// a terminal.
func NewConfig(w io.Writer, mode ColorMode, width, fallback int) Config {
	if width <= 0 {
		width = DetectWidth(w, fallback)
	}

	return Config{
		Width: width,
		Color: UseColor(w, mode),
	}
}

// UseColor resolves mode for w. In auto mode colour is used only on an
// interactive terminal and only when NO_COLOR is unset.
func UseColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && IsTerminal(w)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// DetectWidth returns the column count of the terminal behind w. When the
// size query fails on a terminal, COLUMNS is consulted. Non-interactive
// writers always get fallback, or DefaultWidth when fallback is not positive.
func DetectWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok && f != nil && term.IsTerminal(int(f.Fd())) {
		cols, _, err := term.GetSize(int(f.Fd()))
		if err == nil && cols > 0 {
			return cols
		}

		if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
			return cols
		}
	}

	if fallback > 0 {
		return fallback
	}

	return DefaultWidth
}
