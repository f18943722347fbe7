// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"wrapkit-cli/internal/issue"
)

var (
	// ErrInvalidImageTag is the sentinel error wrapped by InvalidImageTagError.
	ErrInvalidImageTag = errors.New("invalid image tag")

	// ErrInvalidHostFilesystemPath is the sentinel error wrapped by InvalidHostFilesystemPathError.
	ErrInvalidHostFilesystemPath = errors.New("invalid host filesystem path")

	// ErrInvalidMountTargetPath is the sentinel error wrapped by InvalidMountTargetPathError.
	ErrInvalidMountTargetPath = errors.New("invalid container filesystem path")

	// ErrInvalidVolumeMount is the sentinel error wrapped by InvalidVolumeMountError.
	ErrInvalidVolumeMount = errors.New("invalid volume mount")

	// imageTagRegex matches "[registry/]owner/name[:tag]" image references.
	imageTagRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._/-]*(:[a-zA-Z0-9._-]+)?$`)
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// RunArgsTransformer modifies run arguments after they're built.
	// Used by Podman to inject --userns=keep-id for rootless compatibility.
	RunArgsTransformer func(args []string) []string

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides common implementation for CLI-based container engines.
	// Docker and Podman engines embed this struct. Methods that are identical across
	// all CLI engines (Build, Run, Push, RemoveImage and the argument builders)
	// are implemented here; engine-specific methods (Available, Version, ImageExists)
	// remain on the concrete types.
	BaseCLIEngine struct {
		name string // Engine name for error messages (e.g., "docker", "podman")
		//plint:internal -- resolved at construction via exec.LookPath; not user-configurable
		binaryPath         string
		execCommand        ExecCommandFunc
		runArgsTransformer RunArgsTransformer
	}

	// ImageTag is a container image reference ("owner/name:tag").
	ImageTag string

	// InvalidImageTagError is returned when an ImageTag is empty or malformed.
	InvalidImageTagError struct {
		Value ImageTag
	}

	// HostFilesystemPath represents a filesystem path on the host for volume mounts.
	// A valid path must be non-empty and not whitespace-only.
	HostFilesystemPath string

	// InvalidHostFilesystemPathError is returned when a HostFilesystemPath is empty or whitespace-only.
	InvalidHostFilesystemPathError struct {
		Value HostFilesystemPath
	}

	// MountTargetPath represents a filesystem path inside a container for volume mounts.
	// A valid path must be non-empty and not whitespace-only.
	MountTargetPath string

	// InvalidMountTargetPathError is returned when a MountTargetPath is empty or whitespace-only.
	InvalidMountTargetPathError struct {
		Value MountTargetPath
	}

	// VolumeMount represents a bind-mount specification.
	VolumeMount struct {
		HostPath      HostFilesystemPath
		ContainerPath MountTargetPath
		ReadOnly      bool
	}

	// InvalidVolumeMountError is returned when a VolumeMount has one or more invalid fields.
	// It wraps the individual field validation errors for inspection.
	InvalidVolumeMountError struct {
		Value     VolumeMount
		FieldErrs []error
	}
)

// Error implements the error interface.
func (e *InvalidImageTagError) Error() string {
	return fmt.Sprintf("invalid image tag %q", e.Value)
}

// Unwrap returns ErrInvalidImageTag so callers can use errors.Is for programmatic detection.
func (e *InvalidImageTagError) Unwrap() error { return ErrInvalidImageTag }

// String returns the string representation of the ImageTag.
func (t ImageTag) String() string { return string(t) }

// Validate returns an error if the ImageTag is empty or malformed.
func (t ImageTag) Validate() error {
	if !imageTagRegex.MatchString(string(t)) {
		return &InvalidImageTagError{Value: t}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidHostFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid host filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidHostFilesystemPath so callers can use errors.Is for programmatic detection.
func (e *InvalidHostFilesystemPathError) Unwrap() error { return ErrInvalidHostFilesystemPath }

// Validate returns an error if the HostFilesystemPath is empty or whitespace-only.
func (p HostFilesystemPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidHostFilesystemPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidMountTargetPathError) Error() string {
	return fmt.Sprintf("invalid container filesystem path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidMountTargetPath so callers can use errors.Is for programmatic detection.
func (e *InvalidMountTargetPathError) Unwrap() error { return ErrInvalidMountTargetPath }

// Validate returns an error if the MountTargetPath is empty or whitespace-only.
func (p MountTargetPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidMountTargetPathError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidVolumeMountError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrs))
	for _, fe := range e.FieldErrs {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid volume mount: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidVolumeMount plus the individual field errors so
// callers can use errors.Is against either level.
func (e *InvalidVolumeMountError) Unwrap() []error {
	return append([]error{ErrInvalidVolumeMount}, e.FieldErrs...)
}

// Validate returns an error if any VolumeMount field is invalid.
func (v VolumeMount) Validate() error {
	var fieldErrs []error
	if err := v.HostPath.Validate(); err != nil {
		fieldErrs = append(fieldErrs, err)
	}
	if err := v.ContainerPath.Validate(); err != nil {
		fieldErrs = append(fieldErrs, err)
	}
	if len(fieldErrs) > 0 {
		return &InvalidVolumeMountError{Value: v, FieldErrs: fieldErrs}
	}
	return nil
}

// Validate returns an error if any BuildOptions field is invalid.
func (o BuildOptions) Validate() error {
	if strings.TrimSpace(o.ContextDir) == "" {
		return errors.New("build context directory cannot be empty")
	}
	if o.Tag != "" {
		if err := o.Tag.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate returns an error if any RunOptions field is invalid.
func (o RunOptions) Validate() error {
	if err := o.Image.Validate(); err != nil {
		return err
	}
	for _, v := range o.Volumes {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// --- Options ---

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// WithRunArgsTransformer sets a custom run args transformer.
// This is used by Podman to inject --userns=keep-id for rootless compatibility.
func WithRunArgsTransformer(fn RunArgsTransformer) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.runArgsTransformer = fn
	}
}

// --- Constructor ---

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
		// Identity function by default
		runArgsTransformer: func(args []string) []string { return args },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Accessor Methods ---

// Name returns the engine name used in error messages.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// --- Argument Builders ---

// BuildArgs constructs arguments for a container build command.
// Returns arguments in the order expected by docker/podman build.
//
// Generated command: <binary> build [options] <context>
func (e *BaseCLIEngine) BuildArgs(opts BuildOptions) []string {
	args := []string{"build"}

	if opts.Dockerfile != "" {
		// Resolve Dockerfile path relative to context directory.
		// If ContextDir is empty, the Dockerfile path is used as-is
		// (assumed resolvable from CWD by the container engine).
		dockerfilePath := opts.Dockerfile
		if !filepath.IsAbs(dockerfilePath) && opts.ContextDir != "" {
			dockerfilePath = filepath.Join(opts.ContextDir, dockerfilePath)
		}
		args = append(args, "-f", dockerfilePath)
	}

	if opts.Tag != "" {
		args = append(args, "-t", string(opts.Tag))
	}

	if opts.NoCache {
		args = append(args, "--no-cache")
	}

	for k, v := range opts.BuildArgs {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, v))
	}

	args = append(args, opts.ContextDir)

	return args
}

// RunArgs constructs arguments for a container run command.
// Returns arguments in the order expected by docker/podman run.
//
// Generated command: <binary> run [options] <image> [command...]
func (e *BaseCLIEngine) RunArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Remove {
		args = append(args, "--rm")
	}

	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}

	if opts.Entrypoint != "" {
		args = append(args, "--entrypoint", opts.Entrypoint)
	}

	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}

	for k, v := range opts.Env {
		args = append(args, "-e", fmt.Sprintf("%s=%s", k, v))
	}

	for _, v := range opts.Volumes {
		args = append(args, "-v", FormatVolumeMount(v))
	}

	args = append(args, string(opts.Image))
	args = append(args, opts.Command...)

	return e.runArgsTransformer(args)
}

// PushArgs constructs arguments for an image push command.
func (e *BaseCLIEngine) PushArgs(opts PushOptions) []string {
	return []string{"push", string(opts.Image)}
}

// RemoveImageArgs constructs arguments for an image remove command.
func (e *BaseCLIEngine) RemoveImageArgs(image ImageTag, force bool) []string {
	args := []string{"rmi"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, string(image))
	return args
}

// --- Command Execution ---

// RunCommandStatus executes a command and returns only the error status.
func (e *BaseCLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *BaseCLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}

	return out.String(), nil
}

// CreateCommand creates an exec.Cmd for the given arguments.
// This is useful when the caller needs to customize stdin/stdout/stderr.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// --- Promoted Engine Methods (shared by Docker and Podman) ---

// Build builds an image from a Dockerfile.
// It validates BuildOptions before executing to catch invalid fields early.
func (e *BaseCLIEngine) Build(ctx context.Context, opts BuildOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	args := e.BuildArgs(opts)

	cmd := e.CreateCommand(ctx, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return buildContainerError(e.name, opts, err)
	}

	return nil
}

// Run runs a command in a container and returns the result.
// A non-zero exit code is captured in RunResult.ExitCode (not returned as error).
// Only infrastructure failures (binary not found, etc.) set RunResult.Error.
// It validates RunOptions before executing to catch invalid fields early.
func (e *BaseCLIEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	args := e.RunArgs(opts)

	cmd := e.CreateCommand(ctx, args...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()

	result := &RunResult{}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Error = err
		}
	}

	return result, nil
}

// Push pushes an image to its registry.
func (e *BaseCLIEngine) Push(ctx context.Context, opts PushOptions) error {
	if err := opts.Image.Validate(); err != nil {
		return err
	}

	args := e.PushArgs(opts)

	cmd := e.CreateCommand(ctx, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return pushContainerError(e.name, opts, err)
	}

	return nil
}

// RemoveImage removes an image.
func (e *BaseCLIEngine) RemoveImage(ctx context.Context, image ImageTag, force bool) error {
	args := e.RemoveImageArgs(image, force)
	return e.RunCommandStatus(ctx, args...)
}

// --- Volume Mount Formatting ---

// FormatVolumeMount formats a volume mount as a string for the -v flag.
func FormatVolumeMount(mount VolumeMount) string {
	var result strings.Builder
	result.WriteString(string(mount.HostPath))
	result.WriteString(":")
	result.WriteString(string(mount.ContainerPath))
	if mount.ReadOnly {
		result.WriteString(":ro")
	}
	return result.String()
}

// --- Actionable Error Helpers ---

// buildContainerError creates an actionable error for container build failures.
func buildContainerError(engine string, opts BuildOptions, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation("build container image")

	switch {
	case opts.Dockerfile != "":
		ctx.WithResource(opts.Dockerfile)
	case opts.ContextDir != "":
		ctx.WithResource(opts.ContextDir + "/Dockerfile")
	case opts.Tag != "":
		ctx.WithResource(string(opts.Tag))
	}

	ctx.WithSuggestion("Check Dockerfile syntax for errors")
	ctx.WithSuggestion("Verify the build context path exists and is accessible")
	ctx.WithSuggestion("Ensure base images are available (try: " + engine + " pull <base-image>)")
	ctx.WithSuggestion("Run with --verbose to see full build output")

	return ctx.Wrap(cause).BuildError()
}

// pushContainerError creates an actionable error for image push failures.
func pushContainerError(engine string, opts PushOptions, cause error) error {
	ctx := issue.NewErrorContext().
		WithOperation("push container image").
		WithResource(string(opts.Image))

	ctx.WithSuggestion("Log in to the registry first (try: " + engine + " login)")
	ctx.WithSuggestion("Verify the image exists locally (try: " + engine + " images)")
	ctx.WithSuggestion("Check that the registry owner matches your account")

	return ctx.Wrap(cause).BuildError()
}
