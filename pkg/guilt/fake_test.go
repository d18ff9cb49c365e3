package guilt_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
)

// fakeBackend serves canned trees, diffs and blame output.
type fakeBackend struct {
	version gitcli.Version
	trees   map[string][]string
	diff    []gitcli.NumstatEntry
	diffErr error

	// text and bytes are keyed by "rev:path".
	text     map[string]string
	bytes    map[string]string
	blameErr map[string]error

	listCalls atomic.Int32

	mu     sync.Mutex
	blamed []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		version:  gitcli.Version{Major: 2, Minor: 43, Patch: 0},
		trees:    make(map[string][]string),
		text:     make(map[string]string),
		bytes:    make(map[string]string),
		blameErr: make(map[string]error),
	}
}

func (f *fakeBackend) Root() string { return "/repo" }

func (f *fakeBackend) Version() gitcli.Version { return f.version }

func (f *fakeBackend) ListTree(_ context.Context, rev string) ([]string, error) {
	f.listCalls.Add(1)

	paths, ok := f.trees[rev]
	if !ok {
		return nil, fmt.Errorf("unknown revision %q", rev)
	}

	return paths, nil
}

func (f *fakeBackend) DiffNumstat(context.Context, string, string) ([]gitcli.NumstatEntry, error) {
	return f.diff, f.diffErr
}

func (f *fakeBackend) BlameText(_ context.Context, path, rev string, _ gitcli.BlameOptions) ([]byte, error) {
	return f.blame(f.text, path, rev)
}

func (f *fakeBackend) BlameBytes(_ context.Context, path, rev string, _ gitcli.BlameOptions) ([]byte, error) {
	return f.blame(f.bytes, path, rev)
}

func (f *fakeBackend) blame(outputs map[string]string, path, rev string) ([]byte, error) {
	key := rev + ":" + path

	f.mu.Lock()
	f.blamed = append(f.blamed, key)
	f.mu.Unlock()

	if err, ok := f.blameErr[key]; ok {
		return nil, err
	}

	out, ok := outputs[key]
	if !ok {
		return nil, &gitcli.CommandError{
			Args:     []string{"blame", rev, "--", path},
			Stderr:   "fatal: no such path " + path + " in " + rev,
			ExitCode: 128,
		}
	}

	return []byte(out), nil
}

func (f *fakeBackend) blamedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.blamed...)
}

// blameOutput renders lines the way git blame prints them, one group of
// count lines per author, in argument order: author, count, author, count...
func blameOutput(pairs ...any) string {
	var sb strings.Builder

	line := 1

	for i := 0; i+1 < len(pairs); i += 2 {
		author, _ := pairs[i].(string)
		count, _ := pairs[i+1].(int)

		for range count {
			fmt.Fprintf(&sb, "^1a2b3c4 (%-14s 2024-03-01 10:00:00 +0000 %3d) content %d\n", author, line, line)
			line++
		}
	}

	return sb.String()
}

func textEntry(path string, added, deleted int) gitcli.NumstatEntry {
	return gitcli.NumstatEntry{Additions: fmt.Sprint(added), Deletions: fmt.Sprint(deleted), Path: path}
}

func binaryEntry(path string) gitcli.NumstatEntry {
	return gitcli.NumstatEntry{Additions: "-", Deletions: "-", Path: path}
}
