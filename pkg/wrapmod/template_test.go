// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRenderString(t *testing.T) {
	t.Parallel()

	tokens := testDescriptor().TokenMap()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "single token",
			content: "wraps %program_name%",
			want:    "wraps figlet",
		},
		{
			name:    "repeated token",
			content: "%cmd% and %cmd% again",
			want:    "figlet and figlet again",
		},
		{
			name:    "all tokens",
			content: "%package_name%|%program_name%|%cmd%|%docker_user%|%repo_user%|%url%",
			want:    "wrap.figlet|figlet|figlet|dockeruser|repouser|https://github.com/repouser/wrap.figlet",
		},
		{
			name:    "unrecognized token left verbatim",
			content: "keep %unknown_token% and 100%",
			want:    "keep %unknown_token% and 100%",
		},
		{
			name:    "no tokens",
			content: "plain text",
			want:    "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RenderString(tt.content, tokens)
			if got != tt.want {
				t.Errorf("RenderString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderStringDeterministic(t *testing.T) {
	t.Parallel()

	tokens := testDescriptor().TokenMap()
	content := "FROM alpine\nRUN apk add --no-cache %program_name%\nENTRYPOINT [\"%cmd%\"]\n"

	first := RenderString(content, tokens)
	for range 5 {
		if got := RenderString(content, tokens); got != first {
			t.Fatal("rendering the same content twice must produce identical output")
		}
	}
}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	tokens := testDescriptor().TokenMap()

	for _, name := range []string{
		TemplateMetadata,
		TemplateSourceStub,
		TemplateDockerfile,
		TemplateExampleScript,
		TemplateReadme,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			content, err := RenderTemplate(name, tokens)
			if err != nil {
				t.Fatalf("RenderTemplate(%q) returned error: %v", name, err)
			}
			if content == "" {
				t.Fatal("rendered content is empty")
			}
			if strings.Contains(content, "%program_name%") || strings.Contains(content, "%cmd%") {
				t.Errorf("rendered content still contains tokens:\n%s", content)
			}
		})
	}
}

func TestRenderedMetadataTemplateParses(t *testing.T) {
	t.Parallel()

	// The metadata template opens with the "package" field, which CUE only
	// accepts as a quoted label at the top of a file. A fresh skeleton's
	// wrapmod.cue must decode straight back into its descriptor.
	content, err := RenderTemplate(TemplateMetadata, testDescriptor().TokenMap())
	if err != nil {
		t.Fatalf("RenderTemplate(%q) returned error: %v", TemplateMetadata, err)
	}

	meta, err := ParseMetadataBytes([]byte(content), MetadataFileName)
	if err != nil {
		t.Fatalf("rendered metadata does not parse: %v", err)
	}
	if meta.Package != "wrap.figlet" {
		t.Errorf("package = %q, want %q", meta.Package, "wrap.figlet")
	}
	if meta.Program != "figlet" {
		t.Errorf("program = %q, want %q", meta.Program, "figlet")
	}
}

func TestRenderTemplateNotFound(t *testing.T) {
	t.Parallel()

	_, err := RenderTemplate("no-such-template", nil)
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
	var notFound *TemplateNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "no-such-template" {
		t.Errorf("expected TemplateNotFoundError with name, got %#v", err)
	}
}

func TestRenderToFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tokens := testDescriptor().TokenMap()

	target := filepath.Join(dir, "nested", "example.sh")
	if err := RenderToFile(TemplateExampleScript, tokens, target); err != nil {
		t.Fatalf("RenderToFile() returned error: %v", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("rendered file missing: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o100 == 0 {
		t.Error("shell script must be executable")
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read rendered file: %v", err)
	}
	if !strings.HasPrefix(string(data), "#!/bin/sh") {
		t.Errorf("example script must start with a shebang, got:\n%s", data)
	}
	if !strings.Contains(string(data), "figlet") {
		t.Error("example script must reference the wrapped command")
	}
}
