// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"wrapkit-cli/pkg/types"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/spf13/cobra"
)

// newStatusCommand creates the `wrapkit status` command.
func newStatusCommand() *cobra.Command {
	var (
		statusPath string
		statusAll  bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a module's derived lifecycle stage",
		Long: `Show the module's lifecycle stage, derived from which artifacts exist:
nothing (none), the required layout (skeleton), a package archive under
dist/ (built), or a local registry receipt (installed).

The stage is computed fresh on every invocation; nothing is persisted.
With --installed, list every registered module instead.

Examples:
  wrapkit status --path wrap.figlet.wrapmod
  wrapkit status --installed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if statusAll {
				return runStatusInstalled()
			}
			return runStatus(statusPath)
		},
	}

	cmd.Flags().StringVarP(&statusPath, "path", "p", ".", "module directory to report on")
	cmd.Flags().BoolVar(&statusAll, "installed", false, "list all installed modules instead")

	return cmd
}

func runStatus(path string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}

	stage, err := wrapmod.DeriveStage(types.FilesystemPath(path), registry)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Module Status"))
	fmt.Printf("%s Path:  %s\n", infoIcon, PathStyle.Render(path))
	fmt.Printf("%s Stage: %s\n", infoIcon, CmdStyle.Render(stage.String()))

	if stage == wrapmod.StageNone {
		result, err := wrapmod.Validate(types.FilesystemPath(path))
		if err != nil {
			return err
		}
		printValidationResult(result)
	}

	return nil
}

func runStatusInstalled() error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}

	receipts, err := registry.Installed()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Installed Modules"))
	if len(receipts) == 0 {
		fmt.Printf("%s Nothing installed\n", infoIcon)
		return nil
	}

	for _, receipt := range receipts {
		fmt.Printf("%s %s  %s\n", successIcon, CmdStyle.Render(receipt.Package), SubtitleStyle.Render(receipt.InstalledAt.Format("2006-01-02 15:04")))
		fmt.Printf("   %s\n", PathStyle.Render(receipt.Path))
	}

	return nil
}
