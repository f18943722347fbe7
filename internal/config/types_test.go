// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestContainerEngineIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		engine ContainerEngine
		want   bool
	}{
		{"podman", ContainerEnginePodman, true},
		{"docker", ContainerEngineDocker, true},
		{"auto", ContainerEngineAuto, true},
		{"empty", ContainerEngine(""), false},
		{"unknown", ContainerEngine("lxc"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.engine.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidContainerEngine) {
				t.Errorf("expected ErrInvalidContainerEngine, got %v", errs[0])
			}
		})
	}
}

func TestBuilderProgramIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		program BuilderProgram
		want    bool
	}{
		{"empty is valid", BuilderProgram(""), true},
		{"plain name", BuilderProgram("R"), true},
		{"path", BuilderProgram("/usr/bin/R"), true},
		{"whitespace only", BuilderProgram("   "), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.program.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidBuilderProgram) {
				t.Errorf("expected ErrInvalidBuilderProgram, got %v", errs[0])
			}
		})
	}
}

func TestRegistryUserIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user RegistryUser
		want bool
	}{
		{"empty is valid", RegistryUser(""), true},
		{"simple", RegistryUser("alice"), true},
		{"hyphenated", RegistryUser("alice-dev"), true},
		{"leading hyphen", RegistryUser("-alice"), false},
		{"trailing hyphen", RegistryUser("alice-"), false},
		{"double hyphen", RegistryUser("a--b"), false},
		{"whitespace", RegistryUser("a b"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.user.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidRegistryUser) {
				t.Errorf("expected ErrInvalidRegistryUser, got %v", errs[0])
			}
		})
	}
}

func TestConfigIsValidAggregatesFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{
		ContainerEngine: ContainerEngine("bogus"),
		Build:           BuildConfig{Program: "  "},
		Defaults:        DefaultsConfig{DockerUser: "-bad-"},
	}

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected config to be invalid")
	}
	if len(errs) != 1 {
		t.Fatalf("expected a single aggregated error, got %d", len(errs))
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("expected ErrInvalidConfig in chain")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("default config must be valid, got %v", errs)
	}
}
