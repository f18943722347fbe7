// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"errors"
	"fmt"
	"strings"

	"wrapkit-cli/pkg/types"
)

var (
	// ErrAlreadyExists is the sentinel error wrapped by AlreadyExistsError.
	ErrAlreadyExists = errors.New("module already exists")
	// ErrMalformedModule is the sentinel error wrapped by MalformedModuleError.
	ErrMalformedModule = errors.New("malformed module")
	// ErrBuild is the sentinel error wrapped by BuildError.
	ErrBuild = errors.New("build failed")
	// ErrUpload is the sentinel error wrapped by UploadError.
	ErrUpload = errors.New("upload failed")
)

type (
	// AlreadyExistsError is returned when skeleton creation targets a path
	// that already exists. It wraps ErrAlreadyExists for errors.Is().
	AlreadyExistsError struct {
		Path types.FilesystemPath
	}

	// MalformedModuleError is returned when a module's identity fields cannot
	// be recovered from disk. It wraps ErrMalformedModule for errors.Is().
	MalformedModuleError struct {
		Path   types.FilesystemPath
		Reason string
		Cause  error
	}

	// BuildError is returned when an external build tool exits non-zero.
	// It carries the captured output so the failure can be reproduced
	// manually. It wraps ErrBuild for errors.Is().
	BuildError struct {
		// Tool names the failing tool invocation ("package builder", "image build")
		Tool string
		Path types.FilesystemPath
		// ExitCode is the tool's exit code
		ExitCode types.ExitCode
		// Output is the captured combined stdout/stderr
		Output string
	}

	// UploadTarget identifies one of the two publish destinations.
	UploadTarget string

	// UploadError is returned when publishing to a single target fails.
	// Partial failure across targets is reported per-target in UploadResult,
	// never collapsed into one error. It wraps ErrUpload for errors.Is().
	UploadError struct {
		Target UploadTarget
		Path   types.FilesystemPath
		// Output is the captured tool output, when the failure came from a subprocess
		Output string
		Cause  error
	}
)

const (
	// UploadTargetCode is the code-hosting service.
	UploadTargetCode UploadTarget = "code"
	// UploadTargetRegistry is the container image registry.
	UploadTargetRegistry UploadTarget = "registry"
)

// Error implements the error interface for AlreadyExistsError.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("module already exists at %s", e.Path)
}

// Unwrap returns ErrAlreadyExists for errors.Is() compatibility.
func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// Error implements the error interface for MalformedModuleError.
func (e *MalformedModuleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed module at %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("malformed module at %s: %s", e.Path, e.Reason)
}

// Unwrap returns the wrapped errors for errors.Is()/errors.As() traversal.
func (e *MalformedModuleError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrMalformedModule, e.Cause}
	}
	return []error{ErrMalformedModule}
}

// Error implements the error interface for BuildError.
func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d at %s", e.Tool, e.ExitCode, e.Path)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ":\n" + out
	}
	return msg
}

// Unwrap returns ErrBuild for errors.Is() compatibility.
func (e *BuildError) Unwrap() error { return ErrBuild }

// Error implements the error interface for UploadError.
func (e *UploadError) Error() string {
	msg := fmt.Sprintf("upload to %s failed for %s", e.Target, e.Path)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

// Unwrap returns the wrapped errors for errors.Is()/errors.As() traversal.
func (e *UploadError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrUpload, e.Cause}
	}
	return []error{ErrUpload}
}
