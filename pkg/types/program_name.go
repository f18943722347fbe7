// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidProgramName is the sentinel error wrapped by InvalidProgramNameError.
var ErrInvalidProgramName = errors.New("invalid program name")

// programNameRegex matches valid wrapped-program names: a letter followed by
// letters, digits, hyphens, or underscores. This mirrors what container
// registries accept as a repository path segment.
var programNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

type (
	// ProgramName identifies the external command-line program a module wraps
	// (e.g., "figlet"). It doubles as the container repository segment, so it
	// must be lowercase and registry-safe. The zero value ("") is invalid.
	ProgramName string

	// InvalidProgramNameError is returned when a ProgramName does not match
	// the allowed naming rules.
	InvalidProgramNameError struct {
		Value ProgramName
	}
)

// String returns the string representation of the ProgramName.
func (p ProgramName) String() string { return string(p) }

// Validate returns an error if the ProgramName is empty or contains
// characters outside [a-z0-9_-] (or does not start with a letter).
func (p ProgramName) Validate() error {
	if !programNameRegex.MatchString(string(p)) {
		return &InvalidProgramNameError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidProgramNameError.
func (e *InvalidProgramNameError) Error() string {
	return fmt.Sprintf("invalid program name %q: must start with a lowercase letter and contain only lowercase letters, digits, hyphens, or underscores", e.Value)
}

// Unwrap returns ErrInvalidProgramName for errors.Is() compatibility.
func (e *InvalidProgramNameError) Unwrap() error { return ErrInvalidProgramName }
