package gitcli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Repository is a git working copy reached through the git executable.
// It implements the backend boundary used by the ownership-delta engine.
type Repository struct {
	runner       *Runner
	root         string
	version      Version
	byteTextconv string
}

// Options configures Open.
type Options struct {
	// Executable is the git binary name or path.
	Executable string
	// Dir is the directory the repository is discovered from.
	Dir string
	// ByteTextconv is the command transcoding binary content to one line per byte.
	ByteTextconv string
	// Timeout bounds every single git invocation.
	Timeout time.Duration
}

// Open discovers the repository containing opts.Dir and probes the git version.
func Open(ctx context.Context, opts Options) (*Repository, error) {
	if opts.Dir != "" {
		info, err := os.Stat(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotRepository, err)
		}

		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrNotRepository, opts.Dir)
		}
	}

	runner := NewRunner(opts.Executable, opts.Dir, opts.Timeout)

	out, err := runner.Run(ctx, nil, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, ErrExecutableNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrNotRepository, err)
	}

	root := strings.TrimRight(string(out), "\r\n")
	if root == "" {
		return nil, fmt.Errorf("%w: empty toplevel", ErrNotRepository)
	}

	repo := &Repository{
		runner:       runner.WithDir(root),
		root:         root,
		byteTextconv: opts.ByteTextconv,
	}

	version, err := repo.probeVersion(ctx)
	if err != nil {
		return nil, err
	}

	repo.version = version

	return repo, nil
}

// Root returns the absolute path of the repository's top-level directory.
func (r *Repository) Root() string {
	return r.root
}

// Version returns the git version found when the repository was opened.
func (r *Repository) Version() Version {
	return r.version
}

func (r *Repository) probeVersion(ctx context.Context) (Version, error) {
	out, err := r.runner.Run(ctx, nil, "--version")
	if err != nil {
		return Version{}, fmt.Errorf("git version: %w", err)
	}

	return ParseVersion(string(out))
}

// ListTree returns the paths of all blobs reachable from rev's tree.
func (r *Repository) ListTree(ctx context.Context, rev string) ([]string, error) {
	out, err := r.runner.Run(ctx, nil, "ls-tree", "-r", "-z", rev)
	if err != nil {
		return nil, fmt.Errorf("list tree %s: %w", rev, err)
	}

	return parseLsTree(out)
}

// DiffNumstat lists the paths that differ between since and until.
// Rename detection is disabled so old and new names are reported separately.
func (r *Repository) DiffNumstat(ctx context.Context, since, until string) ([]NumstatEntry, error) {
	args := []string{"diff", "-z", "--numstat", "--no-renames", since}
	if until != "" {
		args = append(args, until)
	}

	out, err := r.runner.Run(ctx, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", since, until, err)
	}

	return parseNumstat(out)
}
