package gitcli

import (
	"errors"
	"fmt"
	"strings"
)

// noSuchPathMarker is what git blame prints when a path is absent from a revision.
const noSuchPathMarker = "no such path "

// Sentinel errors for backend failures.
var (
	// ErrExecutableNotFound is returned when the git executable cannot be started.
	ErrExecutableNotFound = errors.New("git executable not found")
	// ErrNotRepository is returned when the working directory is not inside a git repository.
	ErrNotRepository = errors.New("not inside a git repository")
	// ErrNoSuchPath matches a *CommandError raised because a path is absent from a revision.
	ErrNoSuchPath = errors.New("no such path in revision")
	// ErrMalformedOutput is returned when git output does not follow the expected format.
	ErrMalformedOutput = errors.New("malformed git output")
	// ErrMalformedVersion is returned when `git --version` cannot be parsed.
	ErrMalformedVersion = errors.New("malformed git version")
	// ErrTimeout is returned when a git invocation outlives its deadline.
	ErrTimeout = errors.New("git invocation timed out")
)

// CommandError is a git invocation that exited non-zero or wrote diagnostics to stderr.
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.ExitCode)
	}

	return fmt.Sprintf("'git %s' failed with: %s", strings.Join(e.Args, " "), msg)
}

// Is reports ErrNoSuchPath for blame failures on paths missing from the revision.
func (e *CommandError) Is(target error) bool {
	return target == ErrNoSuchPath && strings.Contains(e.Stderr, noSuchPathMarker)
}
