// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"wrapkit-cli/internal/cueutil"
	"wrapkit-cli/pkg/types"
)

const (
	// ModuleSuffix is the standard suffix for wrapper module directories.
	ModuleSuffix = ".wrapmod"

	// MetadataFileName is the module metadata file inside a module directory.
	MetadataFileName = "wrapmod.cue"

	// SourceDir holds the generated wrapper-function source stub.
	SourceDir = "src"

	// ContainerDir holds one subdirectory per image tag, each with a Dockerfile.
	ContainerDir = "container"

	// DockerfileName is the container build spec file name inside a tag directory.
	DockerfileName = "Dockerfile"

	// ExamplesDir holds the smoke-test script.
	ExamplesDir = "examples"

	// ExampleScriptName is the smoke-test script run inside the container.
	ExampleScriptName = "example.sh"

	// DistDir receives built package archives. Derived, not required.
	DistDir = "dist"

	// ReadmeName is generated at skeleton time but optional for validation.
	ReadmeName = "README.md"

	// DefaultImageTagName is the tag directory created by the skeleton.
	DefaultImageTagName = "latest"

	// DefaultVersion is the version stamped into freshly generated metadata.
	DefaultVersion = "0.1.0"

	// IssueTypeStructure categorizes structural validation issues (missing files, wrong layout).
	IssueTypeStructure ValidationIssueType = "structure"
	// IssueTypeNaming categorizes naming convention violations.
	IssueTypeNaming ValidationIssueType = "naming"
	// IssueTypeMetadata categorizes wrapmod.cue parsing or content issues.
	IssueTypeMetadata ValidationIssueType = "metadata"
	// IssueTypeContainer categorizes container build spec issues.
	IssueTypeContainer ValidationIssueType = "container"
	// IssueTypeScript categorizes example script issues.
	IssueTypeScript ValidationIssueType = "script"
	// IssueTypeSecurity categorizes security concerns (symlinks, path escapes).
	IssueTypeSecurity ValidationIssueType = "security"
	// IssueTypeCompatibility categorizes cross-platform compatibility issues.
	IssueTypeCompatibility ValidationIssueType = "compatibility"
)

//go:embed wrapmod_schema.cue
var wrapmodSchema string

type (
	// ValidationIssueType categorizes module validation issues.
	ValidationIssueType string

	// ValidationIssue represents a single domain-level validation problem in a
	// module. Issues are collected and reported as a batch via ValidationResult;
	// error returns are reserved for I/O failures that prevent validation from
	// continuing.
	//
	//nolint:errname // Intentionally named Issue, not Error - semantic domain type
	ValidationIssue struct {
		// Type categorizes the issue
		Type ValidationIssueType `json:"-"`
		// Message describes the specific problem
		Message string `json:"-"`
		// Path is the relative path within the module where the issue was found (optional)
		Path string `json:"-"`
	}

	// ValidationResult contains the result of module validation.
	ValidationResult struct {
		// Valid is true if the module passed all validation checks
		Valid bool `json:"-"`
		// ModulePath is the absolute path to the validated module
		ModulePath types.FilesystemPath `json:"-"`
		// PackageName is the name extracted from the folder (without .wrapmod suffix)
		PackageName types.PackageName `json:"-"`
		// MetadataPath is the path to wrapmod.cue within the module
		MetadataPath types.FilesystemPath `json:"-"`
		// ImageTags lists the tag directories found under container/
		ImageTags []string `json:"-"`
		// Missing lists required entries that were not found, relative to the module root
		Missing []string `json:"-"`
		// Issues contains all validation problems found
		Issues []ValidationIssue `json:"-"`
	}

	// Descriptor is the identity of a wrapper module: which program it wraps,
	// how to invoke it inside the container, and which accounts own the
	// published artifacts. Created at skeleton-generation time and recovered
	// from disk by Identities.
	Descriptor struct {
		// Program is the wrapped command-line program's name
		Program types.ProgramName
		// Package is the wrapper package name ("wrap." + program)
		Package types.PackageName
		// Cmd is the executable invoked inside the container
		Cmd types.CommandName
		// DockerUser is the container registry account that owns the image
		DockerUser types.OwnerName
		// RepoUser is the code-hosting account that owns the repository
		RepoUser types.OwnerName
		// Service is the code-hosting service domain (e.g. "github.com")
		Service string
		// Path is the module directory on disk (empty until created or located)
		Path types.FilesystemPath
	}

	// Metadata is the parsed wrapmod.cue content. It is the module's
	// package-metadata file: identity fields plus the derived repository URL.
	Metadata struct {
		// Package is the wrapper package name; must match the folder name prefix
		Package string `json:"package"`
		// Program is the wrapped program's name
		Program string `json:"program"`
		// Cmd is the executable invoked inside the container
		Cmd string `json:"cmd"`
		// Version is the package version (semver, no "v" prefix)
		Version string `json:"version"`
		// DockerUser is the container registry account
		DockerUser string `json:"docker_user"`
		// RepoUser is the code-hosting account
		RepoUser string `json:"repo_user"`
		// URL is the repository URL derived at generation time
		URL string `json:"url,omitempty"`
		// Description summarizes the module (optional)
		Description string `json:"description,omitempty"`
		// FilePath stores where this wrapmod.cue was loaded from (not in CUE)
		FilePath string `json:"-"`
	}
)

// Error implements the error interface for ValidationIssue.
func (v ValidationIssue) Error() string {
	if v.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", v.Type, v.Path, v.Message)
	}
	return fmt.Sprintf("[%s] %s", v.Type, v.Message)
}

// AddIssue adds a validation issue to the result.
func (r *ValidationResult) AddIssue(issueType ValidationIssueType, message, path string) {
	r.Issues = append(r.Issues, ValidationIssue{
		Type:    issueType,
		Message: message,
		Path:    path,
	})
	r.Valid = false
}

// AddMissing records a required entry as absent. Missing entries are
// reportable, non-fatal conditions consumed by the CLI layer.
func (r *ValidationResult) AddMissing(relPath string) {
	r.Missing = append(r.Missing, relPath)
	r.AddIssue(IssueTypeStructure, "missing required entry", relPath)
}

// DirName returns the module directory name for the descriptor's package.
func (d Descriptor) DirName() string {
	return d.Package.String() + ModuleSuffix
}

// URL derives the repository URL from the descriptor's service, repo user,
// and package name.
func (d Descriptor) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", d.Service, d.RepoUser, d.Package)
}

// ImageRef returns the container image reference for the given tag.
func (d Descriptor) ImageRef(tag string) string {
	return fmt.Sprintf("%s/%s:%s", d.DockerUser, d.Program, tag)
}

// Validate checks all descriptor fields that must be set before skeleton
// generation. Field errors unwrap to their pkg/types sentinels.
func (d Descriptor) Validate() error {
	if err := d.Program.Validate(); err != nil {
		return err
	}
	if err := d.Package.Validate(); err != nil {
		return err
	}
	if d.Package.Program() != d.Program {
		return fmt.Errorf("package %q does not match program %q", d.Package, d.Program)
	}
	if err := d.Cmd.Validate(); err != nil {
		return err
	}
	if err := d.DockerUser.Validate(); err != nil {
		return err
	}
	if err := d.RepoUser.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Service) == "" {
		return fmt.Errorf("service must be non-empty")
	}
	return nil
}

// Descriptor converts parsed metadata back into a module descriptor.
// The service is recovered from the URL host; path is taken from where the
// metadata was loaded.
func (m *Metadata) Descriptor() Descriptor {
	d := Descriptor{
		Program:    types.ProgramName(m.Program),
		Package:    types.PackageName(m.Package),
		Cmd:        types.CommandName(m.Cmd),
		DockerUser: types.OwnerName(m.DockerUser),
		RepoUser:   types.OwnerName(m.RepoUser),
	}
	if m.URL != "" {
		if u, err := url.Parse(m.URL); err == nil {
			d.Service = u.Host
		}
	}
	if m.FilePath != "" {
		d.Path = types.FilesystemPath(filepath.Dir(m.FilePath))
	}
	return d
}

// IsModule checks if the given path looks like a wrapper module directory.
// This is a quick check that only verifies the folder name format and
// existence. For full validation, use Validate().
func IsModule(path types.FilesystemPath) bool {
	pathStr := string(path)

	base := filepath.Base(pathStr)
	if !strings.HasSuffix(base, ModuleSuffix) {
		return false
	}

	pkg := types.PackageName(strings.TrimSuffix(base, ModuleSuffix))
	if err := pkg.Validate(); err != nil {
		return false
	}

	info, err := os.Stat(pathStr)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// ParsePackageName extracts and validates the package name from a module
// folder name. The folder name must end with .wrapmod and carry a valid
// "wrap.<program>" prefix.
func ParsePackageName(folderName string) (types.PackageName, error) {
	if !strings.HasSuffix(folderName, ModuleSuffix) {
		return "", fmt.Errorf("folder name must end with %q", ModuleSuffix)
	}

	prefix := strings.TrimSuffix(folderName, ModuleSuffix)
	if prefix == "" {
		return "", fmt.Errorf("package name cannot be empty (folder name cannot be just %q)", ModuleSuffix)
	}

	pkg := types.PackageName(prefix)
	if err := pkg.Validate(); err != nil {
		return "", err
	}
	return pkg, nil
}

// MetadataPath returns the path to wrapmod.cue in a module directory.
func MetadataPath(modulePath types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(modulePath), MetadataFileName))
}

// ExampleScriptPath returns the path to the smoke-test script in a module directory.
func ExampleScriptPath(modulePath types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(modulePath), ExamplesDir, ExampleScriptName))
}

// DockerfilePath returns the path to the Dockerfile for the given tag.
func DockerfilePath(modulePath types.FilesystemPath, tag string) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(modulePath), ContainerDir, tag, DockerfileName))
}

// SourceStubPath returns the path to the generated source stub for a program.
func SourceStubPath(modulePath types.FilesystemPath, program types.ProgramName) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(modulePath), SourceDir, program.String()+".R"))
}

// ParseMetadata reads and parses module metadata from wrapmod.cue at the given path.
func ParseMetadata(path types.FilesystemPath) (*Metadata, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata at %s: %w", path, err)
	}

	return ParseMetadataBytes(data, string(path))
}

// ParseMetadataBytes parses module metadata content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseMetadataBytes(data []byte, path string) (*Metadata, error) {
	result, err := cueutil.ParseAndDecodeString[Metadata](
		wrapmodSchema,
		data,
		"#Wrapmod",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	meta := result.Value
	meta.FilePath = path
	return meta, nil
}
