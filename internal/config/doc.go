// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/wrapkit/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/wrapkit/config.cue on macOS, %APPDATA%\wrapkit\config.cue
// on Windows). The package provides type-safe configuration access and covers container
// engine selection, the package builder invocation, default registry identities, and
// UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
