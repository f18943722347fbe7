// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"fmt"
	"os"
	"path/filepath"

	"wrapkit-cli/pkg/types"
)

// CreateSkeleton creates the fixed module directory tree under parentDir and
// renders every template with the descriptor's fields. Returns the new module
// path. Fails with AlreadyExistsError if the target path exists; on any
// partial failure the created tree is removed so a retry starts clean.
func CreateSkeleton(desc Descriptor, parentDir types.FilesystemPath) (types.FilesystemPath, error) {
	if err := desc.Validate(); err != nil {
		return "", fmt.Errorf("invalid module descriptor: %w", err)
	}
	if err := parentDir.Validate(); err != nil {
		return "", err
	}

	absParent, err := filepath.Abs(string(parentDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve parent directory: %w", err)
	}

	modulePath := filepath.Join(absParent, desc.DirName())
	if _, err := os.Stat(modulePath); err == nil {
		return "", &AlreadyExistsError{Path: types.FilesystemPath(modulePath)}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check target path: %w", err)
	}

	if err := os.MkdirAll(modulePath, 0o755); err != nil {
		return "", &WriteError{Path: modulePath, Cause: err}
	}

	tokens := desc.TokenMap()
	targets := []struct {
		template string
		relPath  string
	}{
		{TemplateMetadata, MetadataFileName},
		{TemplateSourceStub, filepath.Join(SourceDir, desc.Program.String()+".R")},
		{TemplateDockerfile, filepath.Join(ContainerDir, DefaultImageTagName, DockerfileName)},
		{TemplateExampleScript, filepath.Join(ExamplesDir, ExampleScriptName)},
		{TemplateReadme, ReadmeName},
	}

	for _, target := range targets {
		if err := RenderToFile(target.template, tokens, filepath.Join(modulePath, target.relPath)); err != nil {
			// Leave no half-built skeleton behind.
			_ = os.RemoveAll(modulePath)
			return "", fmt.Errorf("failed to render %s: %w", target.relPath, err)
		}
	}

	return types.FilesystemPath(modulePath), nil
}
