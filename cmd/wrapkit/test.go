// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wrapkit-cli/pkg/types"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/spf13/cobra"
)

// newTestCommand creates the `wrapkit test` command.
func newTestCommand() *cobra.Command {
	var (
		testPath    string
		testTag     string
		testTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the module's example script inside its container image",
		Long: `Run examples/example.sh inside the module's built container image with
the examples directory bind-mounted read-only.

The script's exit code decides the outcome: zero passes, anything else
fails (and the command exits with the script's code). The image must
have been built first with 'wrapkit build --image'.

Examples:
  wrapkit test --path wrap.figlet.wrapmod
  wrapkit test --path wrap.figlet.wrapmod --timeout 2m --tag v2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd.Context(), testPath, testTag, testTimeout)
		},
	}

	cmd.Flags().StringVarP(&testPath, "path", "p", ".", "module directory to test")
	cmd.Flags().StringVarP(&testTag, "tag", "t", "", "image tag to test against (default \"latest\")")
	cmd.Flags().DurationVar(&testTimeout, "timeout", 0, "kill the containerized script after this duration (0 = no limit)")

	return cmd
}

func runTest(ctx context.Context, path, tag string, timeout time.Duration) error {
	lifecycle, err := newLifecycle()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Test Module"))

	result, err := lifecycle.Test(ctx, types.FilesystemPath(path), wrapmod.TestOptions{
		Tag:     tag,
		Timeout: timeout,
	})
	if err != nil {
		return err
	}

	if out := strings.TrimSpace(result.Output); out != "" {
		fmt.Println(out)
		fmt.Println()
	}

	if result.Passed {
		fmt.Printf("%s Example script passed\n", successIcon)
		return nil
	}

	fmt.Printf("%s Example script failed with exit code %d\n", failureIcon, result.ExitCode)
	return &ExitError{
		Code: result.ExitCode,
		Err:  fmt.Errorf("example script exited with code %d", result.ExitCode),
	}
}
