// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCommandName is the sentinel error wrapped by InvalidCommandNameError.
var ErrInvalidCommandName = errors.New("invalid command name")

type (
	// CommandName is the executable invoked inside a module's container
	// (usually the same as the program name, e.g. "figlet"). A valid value
	// must be non-empty and must not contain whitespace; flags and arguments
	// belong to the example script, not the command name.
	CommandName string

	// InvalidCommandNameError is returned when a CommandName is empty or
	// contains whitespace.
	InvalidCommandNameError struct {
		Value CommandName
	}
)

// String returns the string representation of the CommandName.
func (c CommandName) String() string { return string(c) }

// Validate returns an error if the CommandName is empty or contains whitespace.
func (c CommandName) Validate() error {
	if c == "" || strings.ContainsAny(string(c), " \t\n") {
		return &InvalidCommandNameError{Value: c}
	}
	return nil
}

// Error implements the error interface for InvalidCommandNameError.
func (e *InvalidCommandNameError) Error() string {
	return fmt.Sprintf("invalid command name %q: must be non-empty and contain no whitespace", e.Value)
}

// Unwrap returns ErrInvalidCommandName for errors.Is() compatibility.
func (e *InvalidCommandNameError) Unwrap() error { return ErrInvalidCommandName }
