// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wrapkit-cli/pkg/types"
)

func TestCreateSkeleton(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		desc      Descriptor
		expectErr bool
		validate  func(t *testing.T, modulePath string)
	}{
		{
			name: "full layout",
			desc: testDescriptor(),
			validate: func(t *testing.T, modulePath string) {
				t.Helper()
				for _, rel := range []string{
					MetadataFileName,
					filepath.Join(SourceDir, "figlet.R"),
					filepath.Join(ContainerDir, DefaultImageTagName, DockerfileName),
					filepath.Join(ExamplesDir, ExampleScriptName),
					ReadmeName,
				} {
					if _, err := os.Stat(filepath.Join(modulePath, rel)); err != nil {
						t.Errorf("expected %s to exist: %v", rel, err)
					}
				}
				if filepath.Base(modulePath) != "wrap.figlet.wrapmod" {
					t.Errorf("module dir = %q", filepath.Base(modulePath))
				}
			},
		},
		{
			name: "metadata content",
			desc: testDescriptor(),
			validate: func(t *testing.T, modulePath string) {
				t.Helper()
				data, err := os.ReadFile(filepath.Join(modulePath, MetadataFileName))
				if err != nil {
					t.Fatalf("failed to read metadata: %v", err)
				}
				content := string(data)
				for _, want := range []string{
					`"wrap.figlet"`,
					`"figlet"`,
					`"` + DefaultVersion + `"`,
					`"https://github.com/repouser/wrap.figlet"`,
				} {
					if !strings.Contains(content, want) {
						t.Errorf("metadata missing %s:\n%s", want, content)
					}
				}
			},
		},
		{
			name: "dockerfile content",
			desc: testDescriptor(),
			validate: func(t *testing.T, modulePath string) {
				t.Helper()
				data, err := os.ReadFile(filepath.Join(modulePath, ContainerDir, DefaultImageTagName, DockerfileName))
				if err != nil {
					t.Fatalf("failed to read Dockerfile: %v", err)
				}
				content := string(data)
				if !strings.Contains(content, "FROM ") {
					t.Error("Dockerfile missing FROM instruction")
				}
				if !strings.Contains(content, "figlet") {
					t.Error("Dockerfile must install the wrapped program")
				}
				if strings.Contains(content, "%") {
					t.Errorf("Dockerfile still contains template tokens:\n%s", content)
				}
			},
		},
		{
			name:      "invalid descriptor",
			desc:      Descriptor{Program: "figlet"},
			expectErr: true,
		},
		{
			name: "package program mismatch",
			desc: func() Descriptor {
				d := testDescriptor()
				d.Package = "wrap.other"
				return d
			}(),
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			modulePath, err := CreateSkeleton(tt.desc, types.FilesystemPath(t.TempDir()))
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSkeleton() returned error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, string(modulePath))
			}
		})
	}
}

func TestCreateSkeletonAlreadyExists(t *testing.T) {
	t.Parallel()

	parent := types.FilesystemPath(t.TempDir())
	desc := testDescriptor()

	if _, err := CreateSkeleton(desc, parent); err != nil {
		t.Fatalf("first CreateSkeleton() returned error: %v", err)
	}

	_, err := CreateSkeleton(desc, parent)
	if err == nil {
		t.Fatal("expected error on second creation")
	}
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateSkeletonValidatesCleanly(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())

	result, err := Validate(modulePath)
	if err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if !result.Valid {
		t.Errorf("freshly created skeleton must validate: %v", result.Issues)
	}
	if len(result.Missing) != 0 {
		t.Errorf("freshly created skeleton must have no missing entries: %v", result.Missing)
	}
	if len(result.ImageTags) != 1 || result.ImageTags[0] != DefaultImageTagName {
		t.Errorf("expected image tags [%s], got %v", DefaultImageTagName, result.ImageTags)
	}
}

func TestCreateSkeletonIdentitiesRoundTrip(t *testing.T) {
	t.Parallel()

	want := testDescriptor()
	modulePath := mustCreateModule(t, want)

	got, err := Identities(modulePath)
	if err != nil {
		t.Fatalf("Identities() returned error: %v", err)
	}

	if got.Program != want.Program {
		t.Errorf("program = %q, want %q", got.Program, want.Program)
	}
	if got.Package != want.Package {
		t.Errorf("package = %q, want %q", got.Package, want.Package)
	}
	if got.Cmd != want.Cmd {
		t.Errorf("cmd = %q, want %q", got.Cmd, want.Cmd)
	}
	if got.DockerUser != want.DockerUser {
		t.Errorf("docker user = %q, want %q", got.DockerUser, want.DockerUser)
	}
	if got.RepoUser != want.RepoUser {
		t.Errorf("repo user = %q, want %q", got.RepoUser, want.RepoUser)
	}
	if got.Service != want.Service {
		t.Errorf("service = %q, want %q", got.Service, want.Service)
	}
	if got.Path != modulePath {
		t.Errorf("path = %q, want %q", got.Path, modulePath)
	}
}
