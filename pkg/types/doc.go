// SPDX-License-Identifier: MPL-2.0

// Package types provides validated value types shared across wrapkit.
// Each type carries a Validate method returning a dedicated error type
// that unwraps to a package-level sentinel for errors.Is checks.
package types
