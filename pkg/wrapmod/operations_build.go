// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"wrapkit-cli/internal/container"
	"wrapkit-cli/internal/proc"
	"wrapkit-cli/pkg/types"
)

// Build invokes the configured package builder on the module directory and
// collects the produced archive into dist/. With opts.Image it additionally
// builds the container image for the selected tag. A non-zero builder exit
// becomes a BuildError carrying the captured output; a caller-supplied
// timeout surfaces proc.TimeoutError.
func (l *Lifecycle) Build(ctx context.Context, modulePath types.FilesystemPath, opts BuildOptions) (*BuildResult, error) {
	desc, err := Identities(modulePath)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("building package", "package", desc.Package, "builder", l.builder.Program)

	result, err := l.runner.Run(ctx, proc.Invocation{
		Name:    l.builder.Program,
		Args:    l.builder.Args,
		Dir:     string(desc.Path),
		Timeout: opts.Timeout,
	})
	if err != nil {
		return nil, err
	}

	output := result.CombinedOutput()
	if opts.Verbose && opts.Stdout != nil {
		_, _ = io.WriteString(opts.Stdout, output)
	}

	if !result.ExitCode.IsSuccess() {
		return nil, &BuildError{
			Tool:     "package builder",
			Path:     desc.Path,
			ExitCode: result.ExitCode,
			Output:   output,
		}
	}

	archivePath, err := collectArchive(desc.Path, desc.Package)
	if err != nil {
		return nil, err
	}

	buildResult := &BuildResult{
		ArchivePath: archivePath,
		Output:      output,
	}

	if opts.Image {
		imageRef, err := l.buildImage(ctx, desc, opts)
		if err != nil {
			return nil, err
		}
		buildResult.ImageRef = imageRef
	}

	return buildResult, nil
}

// buildImage builds the container image for the selected tag via the engine.
func (l *Lifecycle) buildImage(ctx context.Context, desc *Descriptor, opts BuildOptions) (string, error) {
	engine, err := l.containerEngine()
	if err != nil {
		return "", err
	}

	tag := opts.Tag
	if tag == "" {
		tag = DefaultImageTagName
	}

	contextDir := filepath.Join(string(desc.Path), ContainerDir, tag)
	if !fileExists(filepath.Join(contextDir, DockerfileName)) {
		return "", &MalformedModuleError{
			Path:   desc.Path,
			Reason: fmt.Sprintf("no %s for tag %q", DockerfileName, tag),
		}
	}

	imageRef := desc.ImageRef(tag)
	l.logger.Debug("building image", "image", imageRef, "engine", engine.Name())

	var buildOut bytes.Buffer
	stdout, stderr := io.Writer(&buildOut), io.Writer(&buildOut)
	if opts.Verbose && opts.Stdout != nil && opts.Stderr != nil {
		stdout = io.MultiWriter(&buildOut, opts.Stdout)
		stderr = io.MultiWriter(&buildOut, opts.Stderr)
	}

	buildErr := engine.Build(ctx, container.BuildOptions{
		ContextDir: contextDir,
		Tag:        container.ImageTag(imageRef),
		Stdout:     stdout,
		Stderr:     stderr,
	})
	if buildErr != nil {
		exitCode := types.ExitCode(1)
		var exitErr *exec.ExitError
		if errors.As(buildErr, &exitErr) {
			exitCode = types.ExitCode(exitErr.ExitCode())
		}
		return "", &BuildError{
			Tool:     "image build",
			Path:     desc.Path,
			ExitCode: exitCode,
			Output:   buildOut.String(),
		}
	}

	return imageRef, nil
}

// collectArchive locates the archive the package builder wrote into the
// module directory and moves it under dist/.
func collectArchive(modulePath types.FilesystemPath, pkg types.PackageName) (types.FilesystemPath, error) {
	pattern := filepath.Join(string(modulePath), pkg.String()+"_*.tar.gz")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("failed to locate built archive: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("package builder produced no %s_<version>.tar.gz archive in %s", pkg, modulePath)
	}

	distDir := filepath.Join(string(modulePath), DistDir)
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return "", &WriteError{Path: distDir, Cause: err}
	}

	// The builder writes one archive per invocation; with leftovers from
	// earlier runs, take the lexically last (highest version).
	src := matches[len(matches)-1]
	dst := filepath.Join(distDir, filepath.Base(src))
	if err := os.Rename(src, dst); err != nil {
		return "", &WriteError{Path: dst, Cause: err}
	}

	return types.FilesystemPath(dst), nil
}
