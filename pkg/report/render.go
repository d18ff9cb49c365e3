package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatHTML  = "html"
)

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatTable, FormatJSON, FormatYAML, FormatHTML}
}

// Options select and configure the output format.
type Options struct {
	Format string
	Text   TextOptions
}

// Write renders r to w in the selected format.
func Write(w io.Writer, r *guilt.Report, opts Options) error {
	switch opts.Format {
	case FormatText, "":
		return NewBarChart(r.Lines, r.Bytes, opts.Text).Write(w)
	case FormatTable:
		return WriteTable(w, NewDocument(r))
	case FormatJSON:
		return WriteJSON(w, NewDocument(r))
	case FormatYAML:
		return WriteYAML(w, NewDocument(r))
	case FormatHTML:
		return WriteHTML(w, NewDocument(r))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}
