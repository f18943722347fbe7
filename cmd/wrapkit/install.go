// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"wrapkit-cli/pkg/types"

	"github.com/spf13/cobra"
)

// newInstallCommand creates the `wrapkit install` command.
func newInstallCommand() *cobra.Command {
	var installPath string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register a built module in the local registry",
		Long: `Register a built module in the local install registry.

A registration is one receipt file under the wrapkit config directory;
the module must have been built first (a package archive must exist
under dist/). Re-installing overwrites the previous receipt.

Examples:
  wrapkit install --path wrap.figlet.wrapmod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(installPath)
		},
	}

	cmd.Flags().StringVarP(&installPath, "path", "p", ".", "module directory to install")

	return cmd
}

func runInstall(path string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}

	receipt, err := registry.Install(types.FilesystemPath(path))
	if err != nil {
		return fmt.Errorf("failed to install module: %w", err)
	}

	fmt.Printf("%s Installed %s\n", successIcon, CmdStyle.Render(receipt.Package))
	fmt.Printf("%s Archive: %s\n", infoIcon, PathStyle.Render(receipt.Archive))

	return nil
}
