package guilt

import (
	"slices"

	"github.com/src-d/enry/v2"
)

// Trees pairs the resolved trees of both revisions.
type Trees struct {
	Since Tree
	Until Tree
}

// ScheduleOptions control which jobs are emitted.
type ScheduleOptions struct {
	// ByteBlame enables jobs for binary paths.
	ByteBlame bool
	// SkipVendored drops paths enry recognizes as vendored or generated.
	SkipVendored bool
}

// Schedule turns a change set into blame jobs. Text jobs precede binary jobs,
// paths are visited in sorted order, and for each path the since job comes
// before the until job. A job is emitted only when its path exists in the
// corresponding tree.
func Schedule(changes ChangeSet, since, until string, trees Trees, buckets *Buckets, opts ScheduleOptions) []BlameJob {
	var jobs []BlameJob

	jobs = appendJobs(jobs, changes.TextPaths, KindLine, since, until, trees, buckets, opts)

	if opts.ByteBlame {
		jobs = appendJobs(jobs, changes.BinaryPaths, KindByte, since, until, trees, buckets, opts)
	}

	return jobs
}

func appendJobs(
	jobs []BlameJob, paths []string, kind Kind, since, until string,
	trees Trees, buckets *Buckets, opts ScheduleOptions,
) []BlameJob {
	sorted := slices.Clone(paths)
	slices.Sort(sorted)

	for _, path := range sorted {
		if opts.SkipVendored && enry.IsVendor(path) {
			continue
		}

		if trees.Since.Contains(path) {
			jobs = append(jobs, BlameJob{
				File:   VersionedFile{Path: path, Revision: since},
				Kind:   kind,
				Side:   SideSince,
				Bucket: buckets.Target(kind, SideSince),
			})
		}

		if trees.Until.Contains(path) {
			jobs = append(jobs, BlameJob{
				File:   VersionedFile{Path: path, Revision: until},
				Kind:   kind,
				Side:   SideUntil,
				Bucket: buckets.Target(kind, SideUntil),
			})
		}
	}

	return jobs
}
