// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"wrapkit-cli/internal/config"
	"wrapkit-cli/internal/container"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/charmbracelet/log"
)

// newLifecycle wires a lifecycle orchestrator from the active configuration.
// An explicit engine preference is honored immediately; "auto" defers
// detection until an operation actually needs an engine.
func newLifecycle() (*wrapmod.Lifecycle, error) {
	cfg := activeConfig()

	opts := []wrapmod.LifecycleOption{
		wrapmod.WithLogger(log.Default()),
		wrapmod.WithBuilder(wrapmod.BuilderSpec{
			Program: cfg.Build.Program.String(),
			Args:    cfg.Build.Args,
		}),
	}

	if cfg.ContainerEngine != config.ContainerEngineAuto {
		engine, err := container.NewEngine(container.EngineType(cfg.ContainerEngine))
		if err != nil {
			return nil, err
		}
		opts = append(opts, wrapmod.WithEngine(engine))
	}

	return wrapmod.NewLifecycle(opts...), nil
}

// openRegistry returns the local install registry rooted under the
// application config directory.
func openRegistry() (*wrapmod.Registry, error) {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config directory: %w", err)
	}
	return wrapmod.NewRegistry(filepath.Join(cfgDir, wrapmod.ReceiptsDirName)), nil
}

// printValidationResult renders a validation outcome: missing entries first,
// then the remaining issues grouped as found.
func printValidationResult(result *wrapmod.ValidationResult) {
	if result.Valid {
		fmt.Printf("%s Module %s is valid\n", successIcon, PathStyle.Render(string(result.ModulePath)))
		if len(result.ImageTags) > 0 {
			fmt.Printf("%s Image tags: %v\n", infoIcon, result.ImageTags)
		}
		return
	}

	fmt.Printf("%s Module %s has problems\n", failureIcon, PathStyle.Render(string(result.ModulePath)))
	for _, missing := range result.Missing {
		fmt.Printf("  %s missing required entry: %s\n", failureIcon, PathStyle.Render(missing))
	}
	for _, iss := range result.Issues {
		if iss.Message == "missing required entry" {
			continue // already reported above
		}
		fmt.Printf("  %s %s\n", warnIcon, iss.Error())
	}
}
