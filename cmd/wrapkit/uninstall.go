// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUninstallCommand creates the `wrapkit uninstall` command.
func newUninstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall <package-or-path>",
		Short: "Remove a module's registration from the local registry",
		Long: `Remove a module's registration from the local install registry.

The argument may be a package name (wrap.figlet), a bare program name
(figlet), or a module directory path. Only the registration is removed;
module files on disk are never touched. Uninstalling something that is
not installed succeeds silently.

Examples:
  wrapkit uninstall wrap.figlet
  wrapkit uninstall figlet
  wrapkit uninstall ./wrap.figlet.wrapmod`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(args[0])
		},
	}

	return cmd
}

func runUninstall(identity string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}

	if err := registry.Uninstall(identity); err != nil {
		return fmt.Errorf("failed to uninstall: %w", err)
	}

	fmt.Printf("%s Uninstalled %s\n", successIcon, CmdStyle.Render(identity))
	return nil
}
