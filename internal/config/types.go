// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"wrapkit-cli/pkg/types"
)

const (
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEngineAuto detects an available engine, preferring Docker.
	ContainerEngineAuto ContainerEngine = "auto"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidBuilderProgram is returned when a BuilderProgram value is whitespace-only.
	ErrInvalidBuilderProgram = errors.New("invalid builder program")
	// ErrInvalidRegistryUser is the sentinel error wrapped by InvalidRegistryUserError.
	ErrInvalidRegistryUser = errors.New("invalid registry user")
	// ErrInvalidServiceHost is returned when a ServiceHost value is whitespace-only.
	ErrInvalidServiceHost = errors.New("invalid service host")
	// ErrInvalidBuildConfig is the sentinel error wrapped by InvalidBuildConfigError.
	ErrInvalidBuildConfig = errors.New("invalid build config")
	// ErrInvalidDefaultsConfig is the sentinel error wrapped by InvalidDefaultsConfigError.
	ErrInvalidDefaultsConfig = errors.New("invalid defaults config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// BuilderProgram is the executable invoked to build a language package
	// from a module's sources (e.g. "R"). The zero value ("") is valid and
	// means "use the built-in default".
	BuilderProgram string

	// InvalidBuilderProgramError is returned when a BuilderProgram value is
	// non-empty but whitespace-only.
	InvalidBuilderProgramError struct {
		Value BuilderProgram
	}

	// RegistryUser is a default account name on a container registry or
	// code-hosting service, used to fill template identities. The zero value
	// ("") is valid and means "no default configured".
	RegistryUser string

	// InvalidRegistryUserError is returned when a RegistryUser value is
	// non-empty but not a valid account name. It wraps ErrInvalidRegistryUser
	// for errors.Is() compatibility.
	InvalidRegistryUserError struct {
		Value RegistryUser
	}

	// ServiceHost is the code-hosting service domain used to derive repository
	// URLs (e.g. "github.com"). The zero value ("") is valid and means
	// "use the built-in default".
	ServiceHost string

	// InvalidServiceHostError is returned when a ServiceHost value is
	// non-empty but whitespace-only.
	InvalidServiceHostError struct {
		Value ServiceHost
	}

	// InvalidBuildConfigError is returned when a BuildConfig has invalid fields.
	// It wraps ErrInvalidBuildConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidBuildConfigError struct {
		FieldErrors []error
	}

	// InvalidDefaultsConfigError is returned when a DefaultsConfig has invalid fields.
	// It wraps ErrInvalidDefaultsConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidDefaultsConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine specifies whether to use "podman", "docker", or "auto"
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine"`
		// Build configures the package builder invocation
		Build BuildConfig `json:"build" mapstructure:"build"`
		// Defaults configures default identities for generated modules
		Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// BuildConfig configures how language packages are built from module sources.
	BuildConfig struct {
		// Program is the builder executable to invoke
		Program BuilderProgram `json:"program" mapstructure:"program"`
		// Args are the arguments passed to the builder program
		Args []string `json:"args" mapstructure:"args"`
	}

	// DefaultsConfig holds default identities substituted into module templates.
	DefaultsConfig struct {
		// DockerUser is the default container registry account
		DockerUser RegistryUser `json:"docker_user" mapstructure:"docker_user"`
		// RepoUser is the default code-hosting account
		RepoUser RegistryUser `json:"repo_user" mapstructure:"repo_user"`
		// Service is the code-hosting service domain
		Service ServiceHost `json:"service" mapstructure:"service"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: podman, docker, auto)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error {
	return ErrInvalidContainerEngine
}

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEnginePodman, ContainerEngineDocker, ContainerEngineAuto:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// String returns the string representation of the BuilderProgram.
func (p BuilderProgram) String() string { return string(p) }

// IsValid returns whether the BuilderProgram is valid.
// The zero value ("") is valid (means "use the built-in default").
// Non-zero values must not be whitespace-only.
func (p BuilderProgram) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBuilderProgramError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBuilderProgramError.
func (e *InvalidBuilderProgramError) Error() string {
	return fmt.Sprintf("invalid builder program %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBuilderProgram for errors.Is() compatibility.
func (e *InvalidBuilderProgramError) Unwrap() error { return ErrInvalidBuilderProgram }

// String returns the string representation of the RegistryUser.
func (u RegistryUser) String() string { return string(u) }

// IsValid returns whether the RegistryUser is valid.
// The zero value ("") is valid (means "no default configured").
// Non-zero values must be valid registry/code-host account names.
func (u RegistryUser) IsValid() (bool, []error) {
	if u == "" {
		return true, nil
	}
	if err := types.OwnerName(u).Validate(); err != nil {
		return false, []error{&InvalidRegistryUserError{Value: u}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRegistryUserError.
func (e *InvalidRegistryUserError) Error() string {
	return fmt.Sprintf("invalid registry user %q: must be alphanumeric segments separated by single hyphens", e.Value)
}

// Unwrap returns ErrInvalidRegistryUser for errors.Is() compatibility.
func (e *InvalidRegistryUserError) Unwrap() error { return ErrInvalidRegistryUser }

// String returns the string representation of the ServiceHost.
func (s ServiceHost) String() string { return string(s) }

// IsValid returns whether the ServiceHost is valid.
// The zero value ("") is valid (means "use the built-in default").
// Non-zero values must not be whitespace-only.
func (s ServiceHost) IsValid() (bool, []error) {
	if s == "" {
		return true, nil
	}
	if strings.TrimSpace(string(s)) == "" {
		return false, []error{&InvalidServiceHostError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServiceHostError.
func (e *InvalidServiceHostError) Error() string {
	return fmt.Sprintf("invalid service host %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidServiceHost for errors.Is() compatibility.
func (e *InvalidServiceHostError) Unwrap() error { return ErrInvalidServiceHost }

// IsValid returns whether the BuildConfig has valid fields.
// It delegates to Program.IsValid(); Args entries need no validation.
func (c BuildConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Program.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidBuildConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBuildConfigError.
func (e *InvalidBuildConfigError) Error() string {
	return fmt.Sprintf("invalid build config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidBuildConfig for errors.Is() compatibility.
func (e *InvalidBuildConfigError) Unwrap() error { return ErrInvalidBuildConfig }

// IsValid returns whether the DefaultsConfig has valid fields.
// It delegates to DockerUser.IsValid(), RepoUser.IsValid(), and Service.IsValid().
func (c DefaultsConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.DockerUser.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.RepoUser.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Service.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidDefaultsConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDefaultsConfigError.
func (e *InvalidDefaultsConfigError) Error() string {
	return fmt.Sprintf("invalid defaults config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidDefaultsConfig for errors.Is() compatibility.
func (e *InvalidDefaultsConfigError) Unwrap() error { return ErrInvalidDefaultsConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ContainerEngine.IsValid(), Build.IsValid(), and
// Defaults.IsValid(). UI has only bool fields and needs no validation.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ContainerEngine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Build.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Defaults.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineAuto,
		Build: BuildConfig{
			Program: "R",
			Args:    []string{"CMD", "build", "."},
		},
		Defaults: DefaultsConfig{
			DockerUser: "",
			RepoUser:   "",
			Service:    "github.com",
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}
