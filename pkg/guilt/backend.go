package guilt

import (
	"context"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
)

// Backend is the version-control boundary the engine depends on.
// *gitcli.Repository implements it.
type Backend interface {
	// Root returns the repository's top-level directory.
	Root() string
	// Version returns the backend version used for capability gating.
	Version() gitcli.Version
	// ListTree returns the blob paths present at rev.
	ListTree(ctx context.Context, rev string) ([]string, error)
	// DiffNumstat lists the paths differing between since and until.
	DiffNumstat(ctx context.Context, since, until string) ([]gitcli.NumstatEntry, error)
	// BlameText attributes each line of path at rev.
	BlameText(ctx context.Context, path, rev string, opts gitcli.BlameOptions) ([]byte, error)
	// BlameBytes attributes each byte of path at rev.
	BlameBytes(ctx context.Context, path, rev string, opts gitcli.BlameOptions) ([]byte, error)
}

var _ Backend = (*gitcli.Repository)(nil)

// SupportsByteBlame reports whether the backend can attribute binary content.
func SupportsByteBlame(backend Backend) bool {
	return backend.Version().AtLeast(gitcli.MinByteBlameVersion)
}
