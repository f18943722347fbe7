// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for wrapkit.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"wrapkit-cli/internal/config"
	"wrapkit-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// loadedConfig is the configuration loaded at startup; nil until
	// initRootConfig has run.
	loadedConfig *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "wrapkit",
		Short: "Scaffold and ship containerized wrapper modules",
		Long: TitleStyle.Render("wrapkit") + SubtitleStyle.Render(" - Scaffold and ship containerized wrapper modules") + `

wrapkit manages the full lifecycle of wrapper modules: packages that
expose one command-line program running inside a container image.
Each module lives in a 'wrap.<program>.wrapmod' directory holding its
metadata (CUE), a generated wrapper-function stub, a container build
spec per image tag, and a smoke-test script.

Every lifecycle operation is independently callable and re-derives
what it needs from the module directory; nothing is cached between
invocations.

` + SubtitleStyle.Render("Quick Start:") + `
  1. wrapkit create figlet --docker-user you --repo-user you
  2. Edit the generated Dockerfile and example script
  3. wrapkit build --path wrap.figlet.wrapmod --image
  4. wrapkit test --path wrap.figlet.wrapmod

` + SubtitleStyle.Render("Examples:") + `
  wrapkit create jq              Scaffold a module wrapping jq
  wrapkit check --path MOD       Full structural + content inspection
  wrapkit upload --path MOD --code --registry
  wrapkit status --path MOD      Show the derived lifecycle stage`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wrapkit/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newCreateCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newIdentitiesCommand())
	rootCmd.AddCommand(newTestCommand())
	rootCmd.AddCommand(newUploadCommand())
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newUninstallCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newConfigCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		renderIssueGuidance(os.Stderr, classifyLifecycleError(err))

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file and applies it to global state.
func initRootConfig() {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{
		ConfigFilePath: cfgFile,
	})
	if err != nil {
		// Config problems are surfaced but never block the invocation;
		// defaults carry the command.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}
	loadedConfig = cfg

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// activeConfig returns the loaded configuration, falling back to defaults
// when commands run outside cobra's initialization (tests).
func activeConfig() *config.Config {
	if loadedConfig != nil {
		return loadedConfig
	}
	return config.DefaultConfig()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
