// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"io"
	"time"

	"wrapkit-cli/internal/container"
	"wrapkit-cli/internal/issue"
	"wrapkit-cli/internal/proc"
	"wrapkit-cli/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// BuilderSpec is the external package-builder invocation: an explicit
	// program plus an ordered argument list, serialized as-is to the command
	// line (no dynamic argument capture).
	BuilderSpec struct {
		// Program is the builder executable (e.g. "R")
		Program string
		// Args are the arguments passed before the module sources are built
		Args []string
	}

	// LifecycleOption configures a Lifecycle.
	LifecycleOption func(*Lifecycle)

	// Lifecycle drives the module lifecycle operations that shell out to
	// external tools. It holds no module state: every operation re-derives
	// what it needs from the filesystem at invocation time.
	Lifecycle struct {
		runner  *proc.Runner
		engine  container.Engine
		logger  *log.Logger
		builder BuilderSpec
	}

	// BuildOptions contains options for the Build operation.
	BuildOptions struct {
		// Image also builds the container image from the build spec
		Image bool
		// Tag selects which container/<tag>/Dockerfile to build (default "latest")
		Tag string
		// Timeout optionally bounds the package-builder invocation
		Timeout time.Duration
		// Verbose echoes external-tool output to Stdout/Stderr: image builds
		// stream as they happen, package-builder output is written once the
		// builder exits
		Verbose bool
		// Stdout receives tool output when Verbose is set
		Stdout io.Writer
		// Stderr receives tool errors when Verbose is set
		Stderr io.Writer
	}

	// BuildResult is the outcome of a successful Build.
	BuildResult struct {
		// ArchivePath is the built package archive under dist/
		ArchivePath types.FilesystemPath
		// ImageRef is the image reference built, empty when Image was not requested
		ImageRef string
		// Output is the captured builder output
		Output string
	}

	// TestOptions contains options for the Test operation.
	TestOptions struct {
		// Tag selects which image tag to test against (default "latest")
		Tag string
		// Timeout optionally bounds the containerized script run;
		// exceeding it surfaces proc.TimeoutError, distinct from a non-zero exit
		Timeout time.Duration
	}

	// TestResult reports the outcome of running the example script inside the
	// container. A failed test is data, not an error: the caller decides
	// whether to treat it as blocking.
	TestResult struct {
		// Passed is true when the script exited zero
		Passed bool
		// ExitCode is the script's exit code inside the container
		ExitCode types.ExitCode
		// Output is the captured combined stdout/stderr
		Output string
	}

	// UploadOptions contains options for the Upload operation.
	UploadOptions struct {
		// Code publishes the module directory to its code-hosting remote
		Code bool
		// Registry pushes the built image to the container registry
		Registry bool
		// Tag selects which image tag to push (default "latest")
		Tag string
	}

	// UploadResult reports per-target publish outcomes. Partial failure is
	// never collapsed: each attempted target carries its own error or nil.
	UploadResult struct {
		// CodeAttempted is true when code sharing was requested
		CodeAttempted bool
		// CodeErr is the code-target failure, nil on success
		CodeErr *UploadError
		// RegistryAttempted is true when a registry push was requested
		RegistryAttempted bool
		// RegistryErr is the registry-target failure, nil on success
		RegistryErr *UploadError
	}
)

// Failed reports whether any attempted target failed.
func (r *UploadResult) Failed() bool {
	return (r.CodeAttempted && r.CodeErr != nil) ||
		(r.RegistryAttempted && r.RegistryErr != nil)
}

// DefaultBuilder returns the builder invocation used when none is configured.
func DefaultBuilder() BuilderSpec {
	return BuilderSpec{Program: "R", Args: []string{"CMD", "build", "."}}
}

// WithRunner sets the process runner used for external tool invocations.
func WithRunner(r *proc.Runner) LifecycleOption {
	return func(l *Lifecycle) {
		l.runner = r
	}
}

// WithEngine sets the container engine. When unset, an engine is auto-detected
// the first time an operation needs one.
func WithEngine(e container.Engine) LifecycleOption {
	return func(l *Lifecycle) {
		l.engine = e
	}
}

// WithLogger sets the structured logger for operation progress.
func WithLogger(logger *log.Logger) LifecycleOption {
	return func(l *Lifecycle) {
		l.logger = logger
	}
}

// WithBuilder sets the package-builder invocation.
func WithBuilder(b BuilderSpec) LifecycleOption {
	return func(l *Lifecycle) {
		if b.Program != "" {
			l.builder = b
		}
	}
}

// NewLifecycle creates a lifecycle orchestrator with the given options.
func NewLifecycle(opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		runner:  proc.NewRunner(),
		logger:  log.Default(),
		builder: DefaultBuilder(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// containerEngine returns the configured engine, auto-detecting one on first
// use. Detection failure is wrapped with actionable guidance.
func (l *Lifecycle) containerEngine() (container.Engine, error) {
	if l.engine != nil {
		return l.engine, nil
	}

	engine, err := container.AutoDetectEngine()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("detect container engine").
			WithSuggestion("Install docker or podman and ensure it is on your PATH").
			WithSuggestion("Select an engine explicitly via the container_engine config field").
			Wrap(err).
			BuildError()
	}

	l.engine = engine
	return engine, nil
}
