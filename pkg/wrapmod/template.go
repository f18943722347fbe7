// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates
var templatesFS embed.FS

const (
	// TemplateMetadata renders to wrapmod.cue.
	TemplateMetadata = "wrapmod.cue"
	// TemplateSourceStub renders to src/<program>.R.
	TemplateSourceStub = "program.R"
	// TemplateDockerfile renders to container/<tag>/Dockerfile.
	TemplateDockerfile = "Dockerfile"
	// TemplateExampleScript renders to examples/example.sh.
	TemplateExampleScript = "example.sh"
	// TemplateReadme renders to README.md.
	TemplateReadme = "README.md"
)

var (
	// ErrTemplateNotFound is the sentinel error wrapped by TemplateNotFoundError.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrWrite is the sentinel error wrapped by WriteError.
	ErrWrite = errors.New("write failed")
)

type (
	// TemplateNotFoundError is returned when a named template does not exist.
	// It wraps ErrTemplateNotFound for errors.Is() compatibility.
	TemplateNotFoundError struct {
		Name string
	}

	// WriteError is returned when a rendered template cannot be written to
	// its target path. It wraps ErrWrite for errors.Is() compatibility.
	WriteError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface for TemplateNotFoundError.
func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// Unwrap returns ErrTemplateNotFound for errors.Is() compatibility.
func (e *TemplateNotFoundError) Unwrap() error { return ErrTemplateNotFound }

// Error implements the error interface for WriteError.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

// Unwrap returns the wrapped errors for errors.Is()/errors.As() traversal.
func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Cause} }

// TokenMap returns the template substitution mapping for the descriptor.
// Token names follow the %name% convention used inside the templates.
func (d Descriptor) TokenMap() map[string]string {
	return map[string]string{
		"program_name": d.Program.String(),
		"package_name": d.Package.String(),
		"cmd":          d.Cmd.String(),
		"url":          d.URL(),
		"docker_user":  d.DockerUser.String(),
		"repo_user":    d.RepoUser.String(),
	}
}

// RenderString substitutes %token% placeholders in content using the given
// mapping. Every occurrence of each recognized token is replaced; unrecognized
// tokens are left verbatim so templates may contain literal percent signs.
// Rendering is pure substitution: the same content and mapping always produce
// byte-identical output.
func RenderString(content string, tokens map[string]string) string {
	pairs := make([]string, 0, len(tokens)*2)
	for name, value := range tokens {
		pairs = append(pairs, "%"+name+"%", value)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// RenderTemplate loads the named embedded template and substitutes the given
// tokens. Returns TemplateNotFoundError if no such template exists.
func RenderTemplate(name string, tokens map[string]string) (string, error) {
	data, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", &TemplateNotFoundError{Name: name}
	}
	return RenderString(string(data), tokens), nil
}

// RenderToFile renders the named template and writes the result to targetPath,
// creating parent directories as needed. Returns TemplateNotFoundError if the
// template is missing and WriteError if the target cannot be written.
func RenderToFile(name string, tokens map[string]string, targetPath string) error {
	content, err := RenderTemplate(name, tokens)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return &WriteError{Path: targetPath, Cause: err}
	}

	perm := os.FileMode(0o644)
	if strings.HasSuffix(targetPath, ".sh") {
		perm = 0o755
	}
	if err := os.WriteFile(targetPath, []byte(content), perm); err != nil {
		return &WriteError{Path: targetPath, Cause: err}
	}

	return nil
}
