// Package report renders ownership deltas as a terminal bar chart or as
// JSON, YAML, or HTML documents.
package report

import (
	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
)

// Entry is one author's ownership change in a structured report.
type Entry struct {
	Author string `json:"author" yaml:"author"`
	Since  int    `json:"since"  yaml:"since"  schema:"minimum=0"`
	Until  int    `json:"until"  yaml:"until"  schema:"minimum=0"`
	Delta  int    `json:"delta"  yaml:"delta"  schema:"nonzero"`
}

// Document is the structured form of a run.
type Document struct {
	Since     string  `json:"since"      yaml:"since"      schema:"minLength=1"`
	Until     string  `json:"until"      yaml:"until"      schema:"minLength=1"`
	ByteBlame bool    `json:"byte_blame" yaml:"byte_blame"`
	Lines     []Entry `json:"lines"      yaml:"lines"`
	Bytes     []Entry `json:"bytes"      yaml:"bytes"`
}

// NewDocument converts a report, dropping deltas that did not change hands.
func NewDocument(r *guilt.Report) Document {
	return Document{
		Since:     r.Since,
		Until:     r.Until,
		ByteBlame: r.ByteBlame,
		Lines:     entries(r.Lines),
		Bytes:     entries(r.Bytes),
	}
}

func entries(deltas []guilt.Delta) []Entry {
	out := make([]Entry, 0, len(deltas))

	for _, d := range deltas {
		if d.Count() == 0 {
			continue
		}

		out = append(out, Entry{
			Author: d.Author,
			Since:  d.Since,
			Until:  d.Until,
			Delta:  d.Count(),
		})
	}

	return out
}
