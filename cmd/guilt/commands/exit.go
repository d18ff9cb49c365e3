package commands

import (
	"errors"

	"github.com/Sumatoshi-tech/guilt/pkg/gitcli"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitInvocation = 2
)

// ExitCode maps a command error to the process exit code. Failing to find
// git or a repository is an invocation error; everything else, argument
// errors included, exits with ExitFailure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, gitcli.ErrNotRepository), errors.Is(err, gitcli.ErrExecutableNotFound):
		return ExitInvocation
	default:
		return ExitFailure
	}
}
