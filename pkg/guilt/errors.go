package guilt

import "errors"

// Sentinel errors.
var (
	// ErrInvalidEncoding indicates blame output that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid text encoding in blame output")
	// ErrMissingRevision indicates an empty since or until revision.
	ErrMissingRevision = errors.New("since and until revisions are required")
)
