// Package guilt computes how ownership of repository content shifts between
// two revisions.
//
// The engine resolves both revision trees, classifies the changed paths as
// text or binary, schedules one blame job per (path, revision) pair, tallies
// the attributed lines or bytes per author, and reduces the tallies to
// signed per-author deltas.
package guilt

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Kind distinguishes line-based from byte-based ownership.
// Lines and bytes are never comparable.
type Kind int

const (
	// KindLine counts attributed lines of text files.
	KindLine Kind = iota
	// KindByte counts attributed bytes of binary files.
	KindByte
)

func (k Kind) String() string {
	if k == KindByte {
		return "byte"
	}

	return "line"
}

// Side selects one of the two compared revisions.
type Side int

const (
	// SideSince is the older revision.
	SideSince Side = iota
	// SideUntil is the newer revision.
	SideUntil
)

func (s Side) String() string {
	if s == SideUntil {
		return "until"
	}

	return "since"
}

// VersionedFile identifies one file instance: a path at a revision.
type VersionedFile struct {
	Path     string
	Revision string
}

func (f VersionedFile) String() string {
	return fmt.Sprintf("%s:%q", f.Revision, f.Path)
}

// Tree is the set of blob paths present at a revision.
type Tree map[string]struct{}

// NewTree builds a Tree from a list of paths.
func NewTree(paths []string) Tree {
	tree := make(Tree, len(paths))
	for _, p := range paths {
		tree[p] = struct{}{}
	}

	return tree
}

// Contains reports whether path is a blob in the tree.
func (t Tree) Contains(path string) bool {
	_, ok := t[path]

	return ok
}

// ChangeSet holds the disjoint, sorted text and binary paths that differ
// between two revisions.
type ChangeSet struct {
	TextPaths   []string
	BinaryPaths []string
}

// Empty reports whether no path changed.
func (c ChangeSet) Empty() bool {
	return len(c.TextPaths) == 0 && len(c.BinaryPaths) == 0
}

// Bucket accumulates per-author counts for one (kind, side) pair.
// It is safe for concurrent use.
type Bucket struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewBucket returns an empty Bucket.
func NewBucket() *Bucket {
	return &Bucket{counts: make(map[string]int)}
}

// Add increments author's count by n.
func (b *Bucket) Add(author string, n int) {
	b.mu.Lock()
	b.counts[author] += n
	b.mu.Unlock()
}

// Merge adds every count of tally to the bucket under a single lock.
func (b *Bucket) Merge(tally map[string]int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for author, n := range tally {
		b.counts[author] += n
	}
}

// Snapshot returns a copy of the current counts.
func (b *Bucket) Snapshot() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return maps.Clone(b.counts)
}

// Len returns the number of distinct authors in the bucket.
func (b *Bucket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.counts)
}

// Buckets are the four ownership accumulators of a run.
type Buckets struct {
	LineSince *Bucket
	LineUntil *Bucket
	ByteSince *Bucket
	ByteUntil *Bucket
}

// NewBuckets returns four empty buckets.
func NewBuckets() *Buckets {
	return &Buckets{
		LineSince: NewBucket(),
		LineUntil: NewBucket(),
		ByteSince: NewBucket(),
		ByteUntil: NewBucket(),
	}
}

// Target returns the bucket for a kind and side.
func (b *Buckets) Target(kind Kind, side Side) *Bucket {
	switch {
	case kind == KindLine && side == SideSince:
		return b.LineSince
	case kind == KindLine:
		return b.LineUntil
	case side == SideSince:
		return b.ByteSince
	default:
		return b.ByteUntil
	}
}

// BlameJob is one attribution query: a file instance, the content kind and
// the bucket its counts go to.
type BlameJob struct {
	File   VersionedFile
	Kind   Kind
	Side   Side
	Bucket *Bucket
}

func (j BlameJob) String() string {
	if j.Kind == KindByte {
		return fmt.Sprintf("<BinaryBlame %s>", j.File)
	}

	return fmt.Sprintf("<TextBlame %s>", j.File)
}

// Delta is an author's signed change in ownership between the two revisions.
type Delta struct {
	Author string
	Since  int
	Until  int
	Kind   Kind
}

// Count is the signed ownership change, Until minus Since.
func (d Delta) Count() int {
	return d.Until - d.Since
}

func (d Delta) String() string {
	name := "Delta"
	if d.Kind == KindByte {
		name = "BinaryDelta"
	}

	return fmt.Sprintf("<%s %q: %d (%d->%d)>", name, d.Author, d.Count(), d.Since, d.Until)
}

// CompareDeltas orders deltas by descending count, then ascending author.
// Deltas with equal count and author compare equal.
func CompareDeltas(a, b Delta) int {
	switch {
	case a.Count() > b.Count():
		return -1
	case a.Count() < b.Count():
		return 1
	case a.Author < b.Author:
		return -1
	case a.Author > b.Author:
		return 1
	default:
		return 0
	}
}

// SortDeltas sorts deltas in place with CompareDeltas.
func SortDeltas(deltas []Delta) {
	slices.SortFunc(deltas, CompareDeltas)
}
