// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir for tests. os.UserHomeDir does not
// honor a reassigned HOME on every platform, so swapping the env var alone
// is not enough to sandbox the wrapkit config lookup.
var configDirOverride string

// Reset clears the config directory override. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride points ConfigDir (and everything layered on it, such
// as the module registry location) at dir. Test-only.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
