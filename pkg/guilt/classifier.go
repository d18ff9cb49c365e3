package guilt

import (
	"context"
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
)

// binaryMarker is the numstat count reported for content without line structure.
const binaryMarker = "-"

// Classify splits numstat entries into sorted, disjoint text and binary paths.
// A path is binary when both counts are the binary marker.
func Classify(entries []gitcli.NumstatEntry) ChangeSet {
	text := make(map[string]struct{})
	binary := make(map[string]struct{})

	for _, entry := range entries {
		if entry.Additions == binaryMarker && entry.Deletions == binaryMarker {
			binary[entry.Path] = struct{}{}

			continue
		}

		text[entry.Path] = struct{}{}
	}

	for path := range binary {
		delete(text, path)
	}

	return ChangeSet{
		TextPaths:   sortedKeys(text),
		BinaryPaths: sortedKeys(binary),
	}
}

// ClassifyChanges asks the backend for the paths differing between since and
// until and classifies them.
func ClassifyChanges(ctx context.Context, backend Backend, since, until string) (ChangeSet, error) {
	entries, err := backend.DiffNumstat(ctx, since, until)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("diff %s..%s: %w", since, until, err)
	}

	return Classify(entries), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
