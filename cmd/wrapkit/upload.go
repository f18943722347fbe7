// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"wrapkit-cli/pkg/types"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/spf13/cobra"
)

// newUploadCommand creates the `wrapkit upload` command.
func newUploadCommand() *cobra.Command {
	var (
		uploadPath     string
		uploadCode     bool
		uploadRegistry bool
		uploadTag      string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Publish the module to its code host and/or image registry",
		Long: `Publish the module to its configured targets.

--code pushes the module directory to the git remote derived from its
metadata URL. --registry pushes the built container image to the
registry. Targets are independent: one failing never aborts the other,
and each outcome is reported separately.

Examples:
  wrapkit upload --path wrap.figlet.wrapmod --code
  wrapkit upload --path wrap.figlet.wrapmod --registry --tag v2
  wrapkit upload --path wrap.figlet.wrapmod --code --registry`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd.Context(), uploadPath, uploadCode, uploadRegistry, uploadTag)
		},
	}

	cmd.Flags().StringVarP(&uploadPath, "path", "p", ".", "module directory to publish")
	cmd.Flags().BoolVar(&uploadCode, "code", false, "publish the module sources to the code-hosting service")
	cmd.Flags().BoolVar(&uploadRegistry, "registry", false, "push the container image to the registry")
	cmd.Flags().StringVarP(&uploadTag, "tag", "t", "", "image tag to push (default \"latest\")")

	return cmd
}

func runUpload(ctx context.Context, path string, code, registry bool, tag string) error {
	lifecycle, err := newLifecycle()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Upload Module"))

	result, err := lifecycle.Upload(ctx, types.FilesystemPath(path), wrapmod.UploadOptions{
		Code:     code,
		Registry: registry,
		Tag:      tag,
	})
	if err != nil {
		return err
	}

	if result.CodeAttempted {
		if result.CodeErr == nil {
			fmt.Printf("%s Sources published\n", successIcon)
		} else {
			fmt.Printf("%s Source publish failed: %s\n", failureIcon, formatErrorForDisplay(result.CodeErr, verbose))
		}
	}
	if result.RegistryAttempted {
		if result.RegistryErr == nil {
			fmt.Printf("%s Image pushed\n", successIcon)
		} else {
			fmt.Printf("%s Image push failed: %s\n", failureIcon, formatErrorForDisplay(result.RegistryErr, verbose))
		}
	}

	if result.Failed() {
		// Carry the per-target causes so the top-level error handler can
		// match them against the issue catalog.
		causes := make([]error, 0, 2)
		if result.CodeErr != nil {
			causes = append(causes, result.CodeErr)
		}
		if result.RegistryErr != nil {
			causes = append(causes, result.RegistryErr)
		}
		return &ExitError{Code: 1, Err: fmt.Errorf("one or more upload targets failed: %w", errors.Join(causes...))}
	}
	return nil
}
