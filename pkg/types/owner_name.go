// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidOwnerName is the sentinel error wrapped by InvalidOwnerNameError.
var ErrInvalidOwnerName = errors.New("invalid owner name")

// ownerNameRegex matches account names accepted by container registries and
// code hosts: alphanumeric segments optionally separated by single hyphens.
var ownerNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*$`)

type (
	// OwnerName is an account name on a container registry or code-hosting
	// service (docker user, repository owner). The zero value ("") is invalid.
	OwnerName string

	// InvalidOwnerNameError is returned when an OwnerName does not match the
	// allowed naming rules.
	InvalidOwnerNameError struct {
		Value OwnerName
	}
)

// String returns the string representation of the OwnerName.
func (o OwnerName) String() string { return string(o) }

// Validate returns an error if the OwnerName is empty or not a valid
// registry/code-host account name.
func (o OwnerName) Validate() error {
	if !ownerNameRegex.MatchString(string(o)) {
		return &InvalidOwnerNameError{Value: o}
	}
	return nil
}

// Error implements the error interface for InvalidOwnerNameError.
func (e *InvalidOwnerNameError) Error() string {
	return fmt.Sprintf("invalid owner name %q: must be alphanumeric segments separated by single hyphens", e.Value)
}

// Unwrap returns ErrInvalidOwnerName for errors.Is() compatibility.
func (e *InvalidOwnerNameError) Unwrap() error { return ErrInvalidOwnerName }
