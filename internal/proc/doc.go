// SPDX-License-Identifier: MPL-2.0

// Package proc is the external-process adapter used by every lifecycle
// operation that shells out (package builder, git, container engine helpers).
// It runs one child process synchronously, captures exit status and output,
// classifies caller-supplied timeouts separately from non-zero exits, and
// never retries.
package proc
