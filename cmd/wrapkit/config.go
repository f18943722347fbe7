// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"wrapkit-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `wrapkit config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wrapkit configuration",
		Long: `Manage wrapkit configuration.

Configuration is stored in:
  - Linux: ~/.config/wrapkit/config.cue
  - macOS: ~/Library/Application Support/wrapkit/config.cue
  - Windows: %APPDATA%\wrapkit\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	return cfgCmd
}

func showConfig() error {
	cfg := activeConfig()

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s Container engine: %s\n", infoIcon, cfg.ContainerEngine)
	fmt.Printf("%s Builder:          %s %v\n", infoIcon, cfg.Build.Program, cfg.Build.Args)
	fmt.Printf("%s Docker user:      %s\n", infoIcon, cfg.Defaults.DockerUser)
	fmt.Printf("%s Repo user:        %s\n", infoIcon, cfg.Defaults.RepoUser)
	fmt.Printf("%s Service:          %s\n", infoIcon, cfg.Defaults.Service)
	fmt.Printf("%s Verbose:          %v\n", infoIcon, cfg.UI.Verbose)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Raw CUE:"))
	fmt.Print(config.GenerateCUE(cfg))

	return nil
}

func initConfig() error {
	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create default config: %w", err)
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("%s Config file ready at %s\n", successIcon,
		PathStyle.Render(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Println(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
