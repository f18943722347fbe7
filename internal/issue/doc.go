// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error reporting: the
// ActionableError type with its ErrorContext builder, and a catalog of
// known issues rendered as markdown for the big failure modes (no container
// engine, missing package builder, not a module directory).
package issue
