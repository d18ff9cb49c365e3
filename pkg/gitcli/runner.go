// Package gitcli drives the git executable as a black-box backend.
//
// Every operation is a short-lived subprocess; output is returned as raw
// bytes and stderr diagnostics are treated as failures.
package gitcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long output pipes may stay open after the process is killed.
const waitDelay = 2 * time.Second

// Runner starts git subprocesses in a fixed directory.
type Runner struct {
	executable string
	dir        string
	timeout    time.Duration
}

// NewRunner creates a Runner for the given executable.
// A zero timeout disables the per-invocation deadline.
func NewRunner(executable, dir string, timeout time.Duration) *Runner {
	return &Runner{executable: executable, dir: dir, timeout: timeout}
}

// Executable returns the configured git executable.
func (r *Runner) Executable() string {
	return r.executable
}

// Dir returns the working directory for git invocations.
func (r *Runner) Dir() string {
	return r.dir
}

// WithDir returns a copy of the Runner bound to another directory.
func (r *Runner) WithDir(dir string) *Runner {
	return &Runner{executable: r.executable, dir: dir, timeout: r.timeout}
}

// Run executes git with args and returns its stdout.
// A nil env inherits the current process environment.
func (r *Runner) Run(ctx context.Context, env []string, args ...string) ([]byte, error) {
	runCtx := ctx

	if r.timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.executable, args...)
	cmd.Dir = r.dir
	cmd.Env = env
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("git %s: %w after %s", strings.Join(args, " "), ErrTimeout, r.timeout)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), ctxErr)
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %q: %w", ErrExecutableNotFound, r.executable, runErr)
			}

			return nil, fmt.Errorf("couldn't run 'git %s': %w", strings.Join(args, " "), runErr)
		}

		return nil, &CommandError{Args: args, Stderr: stderr.String(), ExitCode: exitErr.ExitCode()}
	}

	if stderr.Len() > 0 {
		return nil, &CommandError{Args: args, Stderr: stderr.String()}
	}

	return stdout.Bytes(), nil
}
