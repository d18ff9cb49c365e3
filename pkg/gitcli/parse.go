package gitcli

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	recordSeparator = "\x00"
	fieldSeparator  = "\t"
	objectTypeBlob  = "blob"
	numstatFields   = 3
	lsTreeMetaParts = 3
)

// NumstatEntry is one record of `git diff --numstat`.
// Additions and Deletions hold the raw column text; binary changes report "-".
type NumstatEntry struct {
	Additions string
	Deletions string
	Path      string
}

// parseNumstat parses NUL-terminated `diff -z --numstat --no-renames` output.
func parseNumstat(out []byte) ([]NumstatEntry, error) {
	records := splitRecords(out)
	entries := make([]NumstatEntry, 0, len(records))

	for _, record := range records {
		fields := strings.SplitN(record, fieldSeparator, numstatFields)
		if len(fields) != numstatFields || fields[2] == "" {
			return nil, fmt.Errorf("%w: numstat record %q", ErrMalformedOutput, record)
		}

		entries = append(entries, NumstatEntry{
			Additions: fields[0],
			Deletions: fields[1],
			Path:      fields[2],
		})
	}

	return entries, nil
}

// parseLsTree returns the blob paths of NUL-terminated `ls-tree -r -z` output.
// Submodule commits and any other non-blob entries are skipped.
func parseLsTree(out []byte) ([]string, error) {
	records := splitRecords(out)
	paths := make([]string, 0, len(records))

	for _, record := range records {
		meta, path, ok := strings.Cut(record, fieldSeparator)
		if !ok || path == "" {
			return nil, fmt.Errorf("%w: ls-tree record %q", ErrMalformedOutput, record)
		}

		parts := strings.Fields(meta)
		if len(parts) != lsTreeMetaParts {
			return nil, fmt.Errorf("%w: ls-tree record %q", ErrMalformedOutput, record)
		}

		if parts[1] != objectTypeBlob {
			continue
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func splitRecords(out []byte) []string {
	trimmed := bytes.TrimSuffix(out, []byte(recordSeparator))
	if len(bytes.TrimSpace(trimmed)) == 0 {
		return nil
	}

	return strings.Split(string(trimmed), recordSeparator)
}
