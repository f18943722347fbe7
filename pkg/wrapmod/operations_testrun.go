// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"wrapkit-cli/internal/container"
	"wrapkit-cli/internal/issue"
	"wrapkit-cli/internal/proc"
	"wrapkit-cli/pkg/types"
)

// containerExamplesDir is where the module's examples directory is
// bind-mounted inside the test container.
const containerExamplesDir = "/wrapkit/examples"

// Test runs the module's example script inside the built container image with
// the examples directory bind-mounted read-only. A non-zero script exit is
// reported in the TestResult, never raised: the caller decides whether it
// blocks. Engine infrastructure faults are errors; a caller-supplied timeout
// surfaces proc.TimeoutError, distinct from a non-zero exit.
func (l *Lifecycle) Test(ctx context.Context, modulePath types.FilesystemPath, opts TestOptions) (*TestResult, error) {
	desc, err := Identities(modulePath)
	if err != nil {
		return nil, err
	}

	if !fileExists(string(ExampleScriptPath(desc.Path))) {
		return nil, &MalformedModuleError{
			Path:   desc.Path,
			Reason: fmt.Sprintf("no %s/%s to test with", ExamplesDir, ExampleScriptName),
		}
	}

	engine, err := l.containerEngine()
	if err != nil {
		return nil, err
	}

	tag := opts.Tag
	if tag == "" {
		tag = DefaultImageTagName
	}
	imageRef := desc.ImageRef(tag)

	exists, err := engine.ImageExists(ctx, container.ImageTag(imageRef))
	if err != nil {
		return nil, fmt.Errorf("failed to check for image %s: %w", imageRef, err)
	}
	if !exists {
		return nil, issue.NewErrorContext().
			WithOperation("test module").
			WithResource(imageRef).
			WithSuggestion("Build the image first: wrapkit build --path "+string(desc.Path)+" --image").
			Wrap(fmt.Errorf("image %s not found locally", imageRef)).
			BuildError()
	}

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	l.logger.Debug("running example script", "image", imageRef, "engine", engine.Name())

	var output bytes.Buffer
	runResult, err := engine.Run(runCtx, container.RunOptions{
		Image:      container.ImageTag(imageRef),
		Entrypoint: "/bin/sh",
		Command:    []string{containerExamplesDir + "/" + ExampleScriptName},
		Volumes: []container.VolumeMount{{
			HostPath:      container.HostFilesystemPath(filepath.Join(string(desc.Path), ExamplesDir)),
			ContainerPath: container.MountTargetPath(containerExamplesDir),
			ReadOnly:      true,
		}},
		Remove: true,
		Stdout: &output,
		Stderr: &output,
	})
	if err != nil {
		return nil, err
	}
	if runResult.Error != nil {
		// Distinguish a hung-then-killed container from an engine fault.
		if opts.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &proc.TimeoutError{Name: engine.Name(), Timeout: opts.Timeout}
		}
		return nil, fmt.Errorf("container engine failed to run test: %w", runResult.Error)
	}
	if opts.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, &proc.TimeoutError{Name: engine.Name(), Timeout: opts.Timeout}
	}

	return &TestResult{
		Passed:   runResult.ExitCode == 0,
		ExitCode: types.ExitCode(runResult.ExitCode),
		Output:   output.String(),
	}, nil
}
