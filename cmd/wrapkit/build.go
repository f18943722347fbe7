// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"wrapkit-cli/pkg/types"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/spf13/cobra"
)

// newBuildCommand creates the `wrapkit build` command.
func newBuildCommand() *cobra.Command {
	var (
		buildPath    string
		buildImage   bool
		buildTag     string
		buildTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the module package, optionally with its container image",
		Long: `Build the module's language package with the configured builder tool
(default: R CMD build .) and collect the produced archive under dist/.

With --image, additionally build the container image
<docker_user>/<program>:<tag> from container/<tag>/Dockerfile.

Examples:
  wrapkit build --path wrap.figlet.wrapmod
  wrapkit build --path wrap.figlet.wrapmod --image
  wrapkit build --path wrap.figlet.wrapmod --image --tag v2 --timeout 5m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), buildPath, buildImage, buildTag, buildTimeout)
		},
	}

	cmd.Flags().StringVarP(&buildPath, "path", "p", ".", "module directory to build")
	cmd.Flags().BoolVar(&buildImage, "image", false, "also build the container image")
	cmd.Flags().StringVarP(&buildTag, "tag", "t", "", "image tag to build (default \"latest\")")
	cmd.Flags().DurationVar(&buildTimeout, "timeout", 0, "abort the package builder after this duration (0 = no limit)")

	return cmd
}

func runBuild(ctx context.Context, path string, image bool, tag string, timeout time.Duration) error {
	lifecycle, err := newLifecycle()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Build Module"))

	result, err := lifecycle.Build(ctx, types.FilesystemPath(path), wrapmod.BuildOptions{
		Image:   image,
		Tag:     tag,
		Timeout: timeout,
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s Package built\n", successIcon)
	fmt.Printf("%s Archive: %s\n", infoIcon, PathStyle.Render(string(result.ArchivePath)))
	if result.ImageRef != "" {
		fmt.Printf("%s Image:   %s\n", infoIcon, CmdStyle.Render(result.ImageRef))
	}

	return nil
}
