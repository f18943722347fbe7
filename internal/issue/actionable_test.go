// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableErrorError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "build package"},
			want: "failed to build package",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "render template", Resource: "src/figlet.R"},
			want: "failed to render template: src/figlet.R",
		},
		{
			name: "operation, resource, and cause",
			err: &ActionableError{
				Operation: "push image",
				Resource:  "dockeruser/figlet:latest",
				Cause:     errors.New("denied"),
			},
			want: "failed to push image: dockeruser/figlet:latest: denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorContextBuilder(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 1")
	err := NewErrorContext().
		WithOperation("build package").
		WithResource("/tmp/wrap.figlet.wrapmod").
		WithSuggestion("Check builder output above").
		WithSuggestions("Install the builder toolchain", "Run with --verbose").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil with operation set")
	}
	if err.Operation != "build package" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if len(err.Suggestions) != 3 {
		t.Errorf("Suggestions = %d, want 3", len(err.Suggestions))
	}
	if !errors.Is(err, cause) {
		t.Error("built error should unwrap to cause")
	}
}

func TestErrorContextBuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	inner := errors.New("root cause")
	err := &ActionableError{
		Operation:   "upload sources",
		Suggestions: []string{"Check your remote"},
		Cause:       fmt.Errorf("git push: %w", inner),
	}

	brief := err.Format(false)
	if !strings.Contains(brief, "• Check your remote") {
		t.Errorf("non-verbose format missing suggestion: %q", brief)
	}
	if strings.Contains(brief, "Error chain") {
		t.Error("non-verbose format should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "root cause") {
		t.Errorf("verbose format missing chain: %q", verbose)
	}
}

func TestWrapHelpers(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should be nil")
	}
	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("WrapWithContext(nil) should be nil")
	}

	cause := errors.New("boom")
	wrapped := WrapWithContext(cause, "check module", "p")
	if wrapped.Resource != "p" || !errors.Is(wrapped, cause) {
		t.Errorf("WrapWithContext = %+v", wrapped)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, id := range Ids() {
		if Lookup(id) == nil {
			t.Errorf("Lookup(%d) = nil for catalogued id", id)
		}
	}
	if Lookup(Id(9999)) != nil {
		t.Error("Lookup of unknown id should be nil")
	}
}
