// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"wrapkit-cli/pkg/types"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/spf13/cobra"
)

// newIdentitiesCommand creates the `wrapkit identities` command.
func newIdentitiesCommand() *cobra.Command {
	var identitiesPath string

	cmd := &cobra.Command{
		Use:   "identities",
		Short: "Recover and print a module's identity fields",
		Long: `Recover the module's identity from its directory: the wrapped program,
package name, container command, owning accounts, and derived URLs.

Fails when the metadata cannot be parsed or disagrees with the folder
name, reporting exactly what is malformed.

Examples:
  wrapkit identities --path wrap.figlet.wrapmod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentities(identitiesPath)
		},
	}

	cmd.Flags().StringVarP(&identitiesPath, "path", "p", ".", "module directory to inspect")

	return cmd
}

func runIdentities(path string) error {
	desc, err := wrapmod.Identities(types.FilesystemPath(path))
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Module Identities"))
	fmt.Printf("%s Program:     %s\n", infoIcon, CmdStyle.Render(desc.Program.String()))
	fmt.Printf("%s Package:     %s\n", infoIcon, CmdStyle.Render(desc.Package.String()))
	fmt.Printf("%s Command:     %s\n", infoIcon, desc.Cmd.String())
	fmt.Printf("%s Docker user: %s\n", infoIcon, desc.DockerUser.String())
	fmt.Printf("%s Repo user:   %s\n", infoIcon, desc.RepoUser.String())
	fmt.Printf("%s Service:     %s\n", infoIcon, desc.Service)
	fmt.Printf("%s URL:         %s\n", infoIcon, PathStyle.Render(desc.URL()))
	fmt.Printf("%s Image:       %s\n", infoIcon, desc.ImageRef(wrapmod.DefaultImageTagName))

	return nil
}
