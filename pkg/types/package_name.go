// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// PackagePrefix is the fixed prefix prepended to a program name to form the
// wrapper package name (e.g., program "figlet" → package "wrap.figlet").
const PackagePrefix = "wrap."

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// PackageName identifies a wrapper package. It is always derived from a
	// ProgramName by prepending PackagePrefix; free-form package names are
	// not accepted.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName does not carry
	// the fixed prefix or wraps an invalid program name.
	InvalidPackageNameError struct {
		Value PackageName
	}
)

// PackageNameFor derives the PackageName for a program.
func PackageNameFor(program ProgramName) PackageName {
	return PackageName(PackagePrefix + string(program))
}

// String returns the string representation of the PackageName.
func (p PackageName) String() string { return string(p) }

// Program returns the ProgramName embedded in the PackageName.
// Returns "" when the PackageName does not carry the fixed prefix.
func (p PackageName) Program() ProgramName {
	rest, ok := strings.CutPrefix(string(p), PackagePrefix)
	if !ok {
		return ""
	}
	return ProgramName(rest)
}

// Validate returns an error if the PackageName lacks the fixed prefix or the
// embedded program name is invalid.
func (p PackageName) Validate() error {
	program := p.Program()
	if program == "" || program.Validate() != nil {
		return &InvalidPackageNameError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidPackageNameError.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: must be %q followed by a valid program name", e.Value, PackagePrefix)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }
