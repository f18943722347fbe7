// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"

	"wrapkit-cli/pkg/types"
)

// ErrTimeout is the sentinel error wrapped by TimeoutError.
var ErrTimeout = errors.New("process timed out")

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)

	// Runner executes child processes. The zero-value Runner is not usable;
	// construct it with NewRunner. A single Runner is safe to reuse across
	// invocations since it holds no per-invocation state.
	Runner struct {
		execCommand ExecCommandFunc
		logger      *log.Logger
	}

	// Invocation describes one child-process run.
	Invocation struct {
		// Name is the program to run (resolved via PATH when not absolute).
		Name string
		// Args are the command-line arguments, in order.
		Args []string
		// Dir is the working directory ("" means inherit).
		Dir string
		// Env is appended to the inherited environment (KEY=VALUE strings).
		Env []string
		// Stdin is the standard input (nil means none).
		Stdin io.Reader
		// Timeout terminates the process after the given duration.
		// Zero means no timeout: the call blocks until the process exits.
		Timeout time.Duration
	}

	// Result contains the captured outcome of a completed invocation.
	// A non-zero ExitCode is a reported condition, not an error: only
	// infrastructure failures (program missing, start failure, timeout)
	// surface as errors from Run.
	Result struct {
		ExitCode types.ExitCode
		Stdout   string
		Stderr   string
	}

	// TimeoutError is returned when an invocation exceeds its caller-supplied
	// timeout. It is distinct from a non-zero exit so callers can tell a hung
	// tool apart from a failing one.
	TimeoutError struct {
		Name    string
		Timeout time.Duration
	}
)

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("process %q timed out after %s", e.Name, e.Timeout)
}

// Unwrap returns ErrTimeout so callers can use errors.Is for programmatic detection.
func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// CombinedOutput returns stdout and stderr joined for diagnostics.
func (r *Result) CombinedOutput() string {
	if r.Stdout == "" {
		return r.Stderr
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) RunnerOption {
	return func(r *Runner) {
		r.execCommand = fn
	}
}

// WithLogger sets the logger used for invocation debug logging.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		execCommand: exec.CommandContext,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookPath reports whether the named program can be resolved on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Run executes the invocation and blocks until it completes.
//
// Classification of outcomes:
//   - clean exit (any code): (*Result, nil) with captured stdout/stderr
//   - caller timeout exceeded: (nil, *TimeoutError)
//   - context canceled: (nil, ctx.Err())
//   - program missing / failed to start: (nil, error)
func (r *Runner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if inv.Name == "" {
		return nil, errors.New("invocation name cannot be empty")
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if inv.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := r.execCommand(runCtx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(cmd.Environ(), inv.Env...)
	}
	cmd.Stdin = inv.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running external process", "name", inv.Name, "args", inv.Args, "dir", inv.Dir)

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case err == nil:
		r.logger.Debug("process finished", "name", inv.Name, "exit", 0)
		return result, nil

	case inv.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return nil, &TimeoutError{Name: inv.Name, Timeout: inv.Timeout}

	case ctx.Err() != nil:
		return nil, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = types.ExitCode(exitErr.ExitCode())
		r.logger.Debug("process finished", "name", inv.Name, "exit", result.ExitCode)
		return result, nil
	}

	// Start failure: binary not found, permission denied, etc.
	return nil, fmt.Errorf("failed to run %s: %w", inv.Name, err)
}
