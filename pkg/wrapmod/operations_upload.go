// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"wrapkit-cli/internal/container"
	"wrapkit-cli/internal/issue"
	"wrapkit-cli/internal/proc"
	"wrapkit-cli/pkg/types"
)

// Upload publishes the module to its configured targets: the code-hosting
// service (git push of the module directory) and/or the container registry
// (image push via the engine). Each target's outcome is reported separately
// in the UploadResult; one target failing never aborts the other.
func (l *Lifecycle) Upload(ctx context.Context, modulePath types.FilesystemPath, opts UploadOptions) (*UploadResult, error) {
	if !opts.Code && !opts.Registry {
		return nil, fmt.Errorf("nothing to upload: enable code sharing, registry push, or both")
	}

	desc, err := Identities(modulePath)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{}

	if opts.Code {
		result.CodeAttempted = true
		result.CodeErr = l.uploadCode(ctx, desc)
	}

	if opts.Registry {
		result.RegistryAttempted = true
		result.RegistryErr = l.uploadImage(ctx, desc, opts.Tag)
	}

	return result, nil
}

// uploadCode publishes the module directory to its code-hosting remote via
// the git CLI. The remote URL is derived from the module's metadata.
func (l *Lifecycle) uploadCode(ctx context.Context, desc *Descriptor) *UploadError {
	if !proc.LookPath("git") {
		return &UploadError{
			Target: UploadTargetCode,
			Path:   desc.Path,
			Cause: issue.NewErrorContext().
				WithOperation("publish module source").
				WithSuggestion("Install git and ensure it is on your PATH").
				Wrap(fmt.Errorf("git not found")).
				BuildError(),
		}
	}

	remoteURL := desc.URL() + ".git"
	l.logger.Debug("publishing source", "package", desc.Package, "remote", remoteURL)

	// Initialize the repository on first publish; init is a no-op on an
	// already-initialized directory but skipped anyway to keep output clean.
	if !dirExists(filepath.Join(string(desc.Path), ".git")) {
		if uploadErr := l.git(ctx, desc, "init", "--quiet"); uploadErr != nil {
			return uploadErr
		}
	}

	if uploadErr := l.git(ctx, desc, "add", "--all"); uploadErr != nil {
		return uploadErr
	}

	// An unchanged tree makes commit exit non-zero; that is not a failure.
	commitMsg := fmt.Sprintf("Publish %s", desc.Package)
	if res, err := l.runGit(ctx, desc.Path, "commit", "--message", commitMsg); err != nil {
		return &UploadError{Target: UploadTargetCode, Path: desc.Path, Cause: err}
	} else if !res.ExitCode.IsSuccess() && !strings.Contains(res.CombinedOutput(), "nothing to commit") {
		return &UploadError{
			Target: UploadTargetCode,
			Path:   desc.Path,
			Output: res.CombinedOutput(),
			Cause:  fmt.Errorf("git commit exited with code %d", res.ExitCode),
		}
	}

	// Point origin at the derived URL, creating or updating as needed.
	if res, err := l.runGit(ctx, desc.Path, "remote", "set-url", "origin", remoteURL); err != nil {
		return &UploadError{Target: UploadTargetCode, Path: desc.Path, Cause: err}
	} else if !res.ExitCode.IsSuccess() {
		if uploadErr := l.git(ctx, desc, "remote", "add", "origin", remoteURL); uploadErr != nil {
			return uploadErr
		}
	}

	return l.git(ctx, desc, "push", "--set-upstream", "origin", "HEAD")
}

// git runs a git subcommand in the module directory, converting any failure
// (spawn error or non-zero exit) into an UploadError for the code target.
func (l *Lifecycle) git(ctx context.Context, desc *Descriptor, args ...string) *UploadError {
	res, err := l.runGit(ctx, desc.Path, args...)
	if err != nil {
		return &UploadError{Target: UploadTargetCode, Path: desc.Path, Cause: err}
	}
	if !res.ExitCode.IsSuccess() {
		return &UploadError{
			Target: UploadTargetCode,
			Path:   desc.Path,
			Output: res.CombinedOutput(),
			Cause:  fmt.Errorf("git %s exited with code %d", args[0], res.ExitCode),
		}
	}
	return nil
}

func (l *Lifecycle) runGit(ctx context.Context, dir types.FilesystemPath, args ...string) (*proc.Result, error) {
	return l.runner.Run(ctx, proc.Invocation{
		Name: "git",
		Args: args,
		Dir:  string(dir),
	})
}

// uploadImage pushes the module's image for the given tag to its registry.
func (l *Lifecycle) uploadImage(ctx context.Context, desc *Descriptor, tag string) *UploadError {
	engine, err := l.containerEngine()
	if err != nil {
		return &UploadError{Target: UploadTargetRegistry, Path: desc.Path, Cause: err}
	}

	if tag == "" {
		tag = DefaultImageTagName
	}
	imageRef := desc.ImageRef(tag)

	exists, err := engine.ImageExists(ctx, container.ImageTag(imageRef))
	if err != nil {
		return &UploadError{Target: UploadTargetRegistry, Path: desc.Path, Cause: err}
	}
	if !exists {
		return &UploadError{
			Target: UploadTargetRegistry,
			Path:   desc.Path,
			Cause: issue.NewErrorContext().
				WithOperation("push container image").
				WithResource(imageRef).
				WithSuggestion("Build the image first: wrapkit build --path "+string(desc.Path)+" --image").
				Wrap(fmt.Errorf("image %s not found locally", imageRef)).
				BuildError(),
		}
	}

	l.logger.Debug("pushing image", "image", imageRef, "engine", engine.Name())

	var output bytes.Buffer
	pushErr := engine.Push(ctx, container.PushOptions{
		Image:  container.ImageTag(imageRef),
		Stdout: &output,
		Stderr: &output,
	})
	if pushErr != nil {
		return &UploadError{
			Target: UploadTargetRegistry,
			Path:   desc.Path,
			Output: output.String(),
			Cause:  pushErr,
		}
	}

	return nil
}
