// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestProgramNameValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ProgramName
		wantValid bool
	}{
		{name: "simple name is valid", value: "figlet", wantValid: true},
		{name: "hyphenated name is valid", value: "image-magick", wantValid: true},
		{name: "underscored name is valid", value: "pg_dump", wantValid: true},
		{name: "digits after letter are valid", value: "x264", wantValid: true},
		{name: "empty is invalid", value: "", wantValid: false},
		{name: "uppercase is invalid", value: "Figlet", wantValid: false},
		{name: "leading digit is invalid", value: "7zip", wantValid: false},
		{name: "spaces are invalid", value: "fig let", wantValid: false},
		{name: "slash is invalid", value: "bin/figlet", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ProgramName(%q).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidProgramName) {
				t.Errorf("error does not wrap ErrInvalidProgramName: %v", err)
			}
		})
	}
}

func TestPackageNameFor(t *testing.T) {
	t.Parallel()

	pkg := PackageNameFor("figlet")
	if pkg != "wrap.figlet" {
		t.Errorf("PackageNameFor(figlet) = %q, want %q", pkg, "wrap.figlet")
	}
	if got := pkg.Program(); got != "figlet" {
		t.Errorf("Program() = %q, want %q", got, "figlet")
	}
	if err := pkg.Validate(); err != nil {
		t.Errorf("derived package name should validate: %v", err)
	}
}

func TestPackageNameValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     PackageName
		wantValid bool
	}{
		{name: "prefixed name is valid", value: "wrap.figlet", wantValid: true},
		{name: "missing prefix is invalid", value: "figlet", wantValid: false},
		{name: "prefix only is invalid", value: "wrap.", wantValid: false},
		{name: "bad program part is invalid", value: "wrap.Fig let", wantValid: false},
		{name: "empty is invalid", value: "", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("PackageName(%q).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidPackageName) {
				t.Errorf("error does not wrap ErrInvalidPackageName: %v", err)
			}
		})
	}
}

func TestOwnerNameValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     OwnerName
		wantValid bool
	}{
		{name: "plain name is valid", value: "rforge", wantValid: true},
		{name: "mixed case is valid", value: "MyOrg", wantValid: true},
		{name: "hyphenated is valid", value: "my-org-42", wantValid: true},
		{name: "empty is invalid", value: "", wantValid: false},
		{name: "leading hyphen is invalid", value: "-org", wantValid: false},
		{name: "double hyphen is invalid", value: "my--org", wantValid: false},
		{name: "slash is invalid", value: "my/org", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("OwnerName(%q).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidOwnerName) {
				t.Errorf("error does not wrap ErrInvalidOwnerName: %v", err)
			}
		})
	}
}
