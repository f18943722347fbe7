// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions pins down where configuration is read from. Both fields are
// optional; with neither set the platform config directory is searched.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config.cue file. The
	// file must exist when this is set.
	ConfigFilePath string
	// ConfigDirPath overrides the platform config directory lookup.
	ConfigDirPath string
}

// Provider resolves the effective wrapkit configuration. A missing config
// file is not an error: defaults carry the invocation.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider returns the file-backed configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads, schema-validates, and decodes the configuration.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
