// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"wrapkit-cli/internal/proc"
)

func TestUploadRequiresTarget(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	l := newTestLifecycle(&execRecorder{}, &fakeEngine{})

	_, err := l.Upload(context.Background(), modulePath, UploadOptions{})
	if err == nil {
		t.Fatal("expected error when no target is enabled")
	}
}

func TestUploadCode(t *testing.T) {
	t.Parallel()
	requireGit(t)

	modulePath := mustCreateModule(t, testDescriptor())
	recorder := &execRecorder{outcomes: map[string]procOutcome{}}
	l := newTestLifecycle(recorder, nil)

	result, err := l.Upload(context.Background(), modulePath, UploadOptions{Code: true})
	if err != nil {
		t.Fatalf("Upload() returned error: %v", err)
	}

	if !result.CodeAttempted || result.CodeErr != nil {
		t.Fatalf("code upload failed: %v", result.CodeErr)
	}
	if result.RegistryAttempted {
		t.Error("registry must not be attempted when not requested")
	}
	if result.Failed() {
		t.Error("Failed() must be false on success")
	}

	want := []string{"git init", "git add", "git commit", "git remote", "git push"}
	if got := recorder.subcommands(); !slices.Equal(got, want) {
		t.Errorf("git sequence = %v, want %v", got, want)
	}

	// The remote must point at the URL derived from the module metadata.
	var remoteURL string
	recorder.mu.Lock()
	for _, inv := range recorder.invocations {
		if len(inv) > 1 && inv[1] == "remote" {
			remoteURL = inv[len(inv)-1]
		}
	}
	recorder.mu.Unlock()
	if remoteURL != "https://github.com/repouser/wrap.figlet.git" {
		t.Errorf("remote URL = %q", remoteURL)
	}
}

func TestUploadCodeToleratesNothingToCommit(t *testing.T) {
	t.Parallel()
	requireGit(t)

	modulePath := mustCreateModule(t, testDescriptor())
	recorder := &execRecorder{outcomes: map[string]procOutcome{
		"git commit": {ExitCode: 1, Stdout: "nothing to commit, working tree clean\n"},
	}}
	l := newTestLifecycle(recorder, nil)

	result, err := l.Upload(context.Background(), modulePath, UploadOptions{Code: true})
	if err != nil {
		t.Fatalf("Upload() returned error: %v", err)
	}
	if result.CodeErr != nil {
		t.Errorf("an unchanged tree must still publish: %v", result.CodeErr)
	}

	got := recorder.subcommands()
	if got[len(got)-1] != "git push" {
		t.Errorf("expected push after tolerated commit, sequence = %v", got)
	}
}

func TestUploadCodePushFailure(t *testing.T) {
	t.Parallel()
	requireGit(t)

	modulePath := mustCreateModule(t, testDescriptor())
	recorder := &execRecorder{outcomes: map[string]procOutcome{
		"git push": {ExitCode: 128, Stderr: "fatal: repository not found\n"},
	}}
	l := newTestLifecycle(recorder, nil)

	result, err := l.Upload(context.Background(), modulePath, UploadOptions{Code: true})
	if err != nil {
		t.Fatalf("Upload() returned error: %v", err)
	}

	if result.CodeErr == nil {
		t.Fatal("expected code upload failure")
	}
	if !errors.Is(result.CodeErr, ErrUpload) {
		t.Errorf("expected ErrUpload, got %v", result.CodeErr)
	}
	if result.CodeErr.Target != UploadTargetCode {
		t.Errorf("target = %q", result.CodeErr.Target)
	}
	if !strings.Contains(result.CodeErr.Output, "repository not found") {
		t.Errorf("output = %q", result.CodeErr.Output)
	}
	if !result.Failed() {
		t.Error("Failed() must be true")
	}
}

func TestUploadRegistry(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	engine := &fakeEngine{imageExists: true}
	l := newTestLifecycle(&execRecorder{}, engine)

	result, err := l.Upload(context.Background(), modulePath, UploadOptions{Registry: true})
	if err != nil {
		t.Fatalf("Upload() returned error: %v", err)
	}

	if !result.RegistryAttempted || result.RegistryErr != nil {
		t.Fatalf("registry upload failed: %v", result.RegistryErr)
	}
	if result.CodeAttempted {
		t.Error("code must not be attempted when not requested")
	}
	if len(engine.pushCalls) != 1 {
		t.Fatalf("push calls = %d, want 1", len(engine.pushCalls))
	}
	if got := string(engine.pushCalls[0].Image); got != "dockeruser/figlet:latest" {
		t.Errorf("pushed image = %q", got)
	}
}

func TestUploadRegistryMissingImage(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	l := newTestLifecycle(&execRecorder{}, &fakeEngine{imageExists: false})

	result, err := l.Upload(context.Background(), modulePath, UploadOptions{Registry: true})
	if err != nil {
		t.Fatalf("Upload() returned error: %v", err)
	}

	if result.RegistryErr == nil {
		t.Fatal("expected registry failure for a missing image")
	}
	if !strings.Contains(result.RegistryErr.Error(), "not found locally") {
		t.Errorf("error = %v", result.RegistryErr)
	}
}

func TestUploadPartialFailure(t *testing.T) {
	t.Parallel()
	requireGit(t)

	modulePath := mustCreateModule(t, testDescriptor())
	recorder := &execRecorder{outcomes: map[string]procOutcome{}}
	engine := &fakeEngine{
		imageExists: true,
		pushErr:     errors.New("denied: requested access to the resource is denied"),
		pushOutput:  "unauthorized\n",
	}
	l := newTestLifecycle(recorder, engine)

	result, err := l.Upload(context.Background(), modulePath, UploadOptions{Code: true, Registry: true})
	if err != nil {
		t.Fatalf("one failing target must not abort the upload: %v", err)
	}

	if result.CodeErr != nil {
		t.Errorf("code upload must succeed: %v", result.CodeErr)
	}
	if result.RegistryErr == nil {
		t.Fatal("expected registry failure")
	}
	if result.RegistryErr.Target != UploadTargetRegistry {
		t.Errorf("target = %q", result.RegistryErr.Target)
	}
	if !result.Failed() {
		t.Error("Failed() must be true on partial failure")
	}
}

// requireGit skips tests that exercise the code target when git is absent:
// uploadCode gates on PATH resolution before any mocked invocation runs.
func requireGit(t *testing.T) {
	t.Helper()
	if !proc.LookPath("git") {
		t.Skip("git not found on PATH")
	}
}
