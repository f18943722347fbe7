// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"wrapkit-cli/pkg/types"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/spf13/cobra"
)

// newCheckCommand creates the `wrapkit check` command.
func newCheckCommand() *cobra.Command {
	var checkPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Inspect a module's structure and content",
		Long: `Inspect a module directory: verify the required layout, parse the
metadata against its schema, confirm every container build spec has a
FROM instruction, and parse the example script as POSIX shell.

Problems are reported individually; the command exits non-zero when
any are found.

Examples:
  wrapkit check --path wrap.figlet.wrapmod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(checkPath)
		},
	}

	cmd.Flags().StringVarP(&checkPath, "path", "p", ".", "module directory to inspect")

	return cmd
}

func runCheck(path string) error {
	fmt.Println(TitleStyle.Render("Check Module"))

	result, err := wrapmod.Check(types.FilesystemPath(path))
	if err != nil {
		return err
	}

	printValidationResult(result)

	if !result.Valid {
		return &ExitError{Code: 1, Err: fmt.Errorf("module check found %d problem(s)", len(result.Issues))}
	}
	return nil
}
