// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wrapkit-cli/pkg/platform"
	"wrapkit-cli/pkg/types"
)

// Validate performs structural validation of a module at the given path.
// Missing required entries are reported in the result, never raised as
// errors; an error return means the path could not be inspected at all.
func Validate(modulePath types.FilesystemPath) (*ValidationResult, error) {
	absPath, err := filepath.Abs(string(modulePath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	result := &ValidationResult{
		Valid:      true,
		ModulePath: types.FilesystemPath(absPath),
		Issues:     []ValidationIssue{},
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.AddIssue(IssueTypeStructure, "path does not exist", "")
			return result, nil
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		result.AddIssue(IssueTypeStructure, "path is not a directory", "")
		return result, nil
	}

	// Validate folder name and extract the package name
	base := filepath.Base(absPath)
	pkg, err := ParsePackageName(base)
	if err != nil {
		result.AddIssue(IssueTypeNaming, err.Error(), "")
	} else {
		result.PackageName = pkg
	}

	// Check for wrapmod.cue (required)
	metaPath := filepath.Join(absPath, MetadataFileName)
	metaInfo, err := os.Stat(metaPath)
	switch {
	case err != nil && os.IsNotExist(err):
		result.AddMissing(MetadataFileName)
	case err != nil:
		result.AddIssue(IssueTypeStructure, fmt.Sprintf("cannot access %s: %v", MetadataFileName, err), "")
	case metaInfo.IsDir():
		result.AddIssue(IssueTypeStructure, MetadataFileName+" must be a file, not a directory", "")
	default:
		result.MetadataPath = types.FilesystemPath(metaPath)
	}

	// Check for the source stub (required): src/<program>.R where the
	// program is derived from the folder name.
	if result.PackageName != "" {
		stubRel := filepath.Join(SourceDir, result.PackageName.Program().String()+".R")
		if !fileExists(filepath.Join(absPath, stubRel)) {
			result.AddMissing(stubRel)
		}
	} else if !dirExists(filepath.Join(absPath, SourceDir)) {
		result.AddMissing(SourceDir)
	}

	// Check for container/ with at least one <tag>/Dockerfile (required)
	containerPath := filepath.Join(absPath, ContainerDir)
	tags, tagErr := imageTagDirs(containerPath)
	switch {
	case tagErr != nil:
		result.AddMissing(ContainerDir)
	case len(tags) == 0:
		result.AddIssue(IssueTypeContainer, "no <tag>/"+DockerfileName+" found under "+ContainerDir, ContainerDir)
	default:
		result.ImageTags = tags
	}

	// Check for examples/example.sh (required)
	exampleRel := filepath.Join(ExamplesDir, ExampleScriptName)
	if !fileExists(filepath.Join(absPath, exampleRel)) {
		result.AddMissing(exampleRel)
	}

	// Walk for symlinks and cross-platform hazards
	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Intentionally skip errors to continue walking
		}

		if path == absPath {
			return nil
		}

		// Symlinks could point outside the module and are a hazard when the
		// directory is archived or bind-mounted into a container.
		if d.Type()&os.ModeSymlink != 0 {
			relPath, _ := filepath.Rel(absPath, path)
			result.AddIssue(IssueTypeSecurity, "symlinks are not allowed in modules", relPath)
		}

		// Nested modules are never valid.
		if d.IsDir() && strings.HasSuffix(d.Name(), ModuleSuffix) {
			relPath, _ := filepath.Rel(absPath, path)
			result.AddIssue(IssueTypeStructure, "nested modules are not allowed", relPath)
		}

		// Windows reserved filenames break checkouts on Windows.
		if platform.IsWindowsReservedName(d.Name()) {
			relPath, _ := filepath.Rel(absPath, path)
			result.AddIssue(IssueTypeCompatibility, fmt.Sprintf("filename '%s' is reserved on Windows", d.Name()), relPath)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk module directory: %w", err)
	}

	return result, nil
}

// Identities recovers the module's descriptor from disk by parsing the
// package metadata and confirming the generated source stub. Fails with
// MalformedModuleError if required identity fields cannot be recovered.
func Identities(modulePath types.FilesystemPath) (*Descriptor, error) {
	absPath, err := filepath.Abs(string(modulePath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	fsPath := types.FilesystemPath(absPath)

	meta, err := ParseMetadata(MetadataPath(fsPath))
	if err != nil {
		return nil, &MalformedModuleError{
			Path:   fsPath,
			Reason: "cannot parse " + MetadataFileName,
			Cause:  err,
		}
	}

	desc := meta.Descriptor()
	desc.Path = fsPath

	if err := desc.Program.Validate(); err != nil {
		return nil, &MalformedModuleError{Path: fsPath, Reason: "invalid program field", Cause: err}
	}
	if err := desc.Cmd.Validate(); err != nil {
		return nil, &MalformedModuleError{Path: fsPath, Reason: "invalid cmd field", Cause: err}
	}
	if err := desc.Package.Validate(); err != nil {
		return nil, &MalformedModuleError{Path: fsPath, Reason: "invalid package field", Cause: err}
	}

	// The package field must agree with the folder name.
	if folderPkg, err := ParsePackageName(filepath.Base(absPath)); err == nil && folderPkg != desc.Package {
		return nil, &MalformedModuleError{
			Path:   fsPath,
			Reason: fmt.Sprintf("package field %q does not match folder name %q", desc.Package, folderPkg),
		}
	}

	// The generated source stub is part of the module identity.
	if !fileExists(string(SourceStubPath(fsPath, desc.Program))) {
		return nil, &MalformedModuleError{
			Path:   fsPath,
			Reason: fmt.Sprintf("source stub %s/%s.R not found", SourceDir, desc.Program),
		}
	}

	return &desc, nil
}

// imageTagDirs lists tag directories under container/ that hold a Dockerfile.
func imageTagDirs(containerPath string) ([]string, error) {
	entries, err := os.ReadDir(containerPath)
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if fileExists(filepath.Join(containerPath, entry.Name(), DockerfileName)) {
			tags = append(tags, entry.Name())
		}
	}
	return tags, nil
}

// fileExists checks if a path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dirExists checks if a path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
