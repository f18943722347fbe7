// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"wrapkit-cli/pkg/types"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/spf13/cobra"
)

// newCreateCommand creates the `wrapkit create` command.
func newCreateCommand() *cobra.Command {
	var (
		createCmdName    string
		createDockerUser string
		createRepoUser   string
		createService    string
		createPath       string
	)

	cmd := &cobra.Command{
		Use:   "create <program>",
		Short: "Scaffold a new wrapper module",
		Long: `Scaffold a new wrapper module for the given program.

The module directory is named 'wrap.<program>.wrapmod' and is created
under the parent directory with its metadata file, wrapper-function
source stub, container build spec, smoke-test script, and README all
rendered from embedded templates.

Examples:
  wrapkit create figlet --docker-user alice --repo-user alice
  wrapkit create jq --cmd jq --service codeberg.org
  wrapkit create zstd --path ~/modules`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], createCmdName, createDockerUser, createRepoUser, createService, createPath)
		},
	}

	cmd.Flags().StringVar(&createCmdName, "cmd", "", "executable invoked inside the container (default: the program name)")
	cmd.Flags().StringVar(&createDockerUser, "docker-user", "", "container registry account owning the image")
	cmd.Flags().StringVar(&createRepoUser, "repo-user", "", "code-hosting account owning the repository")
	cmd.Flags().StringVar(&createService, "service", "", "code-hosting service domain (default from config)")
	cmd.Flags().StringVarP(&createPath, "path", "p", ".", "parent directory for the module")

	return cmd
}

func runCreate(programArg, cmdName, dockerUser, repoUser, service, parentDir string) error {
	cfg := activeConfig()

	if cmdName == "" {
		cmdName = programArg
	}
	if dockerUser == "" {
		dockerUser = cfg.Defaults.DockerUser.String()
	}
	if repoUser == "" {
		repoUser = cfg.Defaults.RepoUser.String()
	}
	if service == "" {
		service = cfg.Defaults.Service.String()
	}

	program := types.ProgramName(programArg)
	desc := wrapmod.Descriptor{
		Program:    program,
		Package:    types.PackageNameFor(program),
		Cmd:        types.CommandName(cmdName),
		DockerUser: types.OwnerName(dockerUser),
		RepoUser:   types.OwnerName(repoUser),
		Service:    service,
	}

	fmt.Println(TitleStyle.Render("Create Module"))

	modulePath, err := wrapmod.CreateSkeleton(desc, types.FilesystemPath(parentDir))
	if err != nil {
		return fmt.Errorf("failed to create module: %w", err)
	}

	fmt.Printf("%s Module created successfully\n", successIcon)
	fmt.Println()
	fmt.Printf("%s Path:    %s\n", infoIcon, PathStyle.Render(string(modulePath)))
	fmt.Printf("%s Package: %s\n", infoIcon, CmdStyle.Render(desc.Package.String()))
	fmt.Printf("%s URL:     %s\n", infoIcon, PathStyle.Render(desc.URL()))

	fmt.Println()
	fmt.Printf("%s Next steps:\n", infoIcon)
	fmt.Printf("   1. Review %s\n", PathStyle.Render(filepath.Join(string(modulePath), wrapmod.ContainerDir, wrapmod.DefaultImageTagName, wrapmod.DockerfileName)))
	fmt.Printf("   2. Extend %s with real invocations\n", PathStyle.Render(filepath.Join(string(modulePath), wrapmod.ExamplesDir, wrapmod.ExampleScriptName)))
	fmt.Printf("   3. Run %s\n", CmdStyle.Render("wrapkit build --path "+string(modulePath)+" --image"))

	return nil
}
