// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"fmt"
	"os"
)

// WithTempScript writes content to a temporary executable script, invokes fn
// with its path, and removes the file on every exit path (including when fn
// returns an error or panics). The temp file never outlives the call.
func WithTempScript(content string, fn func(scriptPath string) error) error {
	f, err := os.CreateTemp("", "wrapkit-script-*.sh")
	if err != nil {
		return fmt.Errorf("failed to create temp script: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write temp script: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp script: %w", err)
	}
	if err := os.Chmod(path, 0o755); err != nil {
		return fmt.Errorf("failed to chmod temp script: %w", err)
	}

	return fn(path)
}
