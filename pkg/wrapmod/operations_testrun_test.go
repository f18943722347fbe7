// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wrapkit-cli/internal/container"
	"wrapkit-cli/internal/proc"
)

func TestTestRunsExampleScript(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	engine := &fakeEngine{
		imageExists: true,
		runOutput:   " _____ _       _      _   \n",
	}
	l := newTestLifecycle(nil, engine)

	result, err := l.Test(context.Background(), modulePath, TestOptions{})
	if err != nil {
		t.Fatalf("Test() returned error: %v", err)
	}

	if !result.Passed {
		t.Error("expected the test to pass")
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d", result.ExitCode)
	}
	if !strings.Contains(result.Output, "_____") {
		t.Errorf("output = %q", result.Output)
	}

	if len(engine.runCalls) != 1 {
		t.Fatalf("engine run calls = %d, want 1", len(engine.runCalls))
	}
	call := engine.runCalls[0]
	if string(call.Image) != "dockeruser/figlet:latest" {
		t.Errorf("image = %q", call.Image)
	}
	if call.Entrypoint != "/bin/sh" {
		t.Errorf("entrypoint = %q, want /bin/sh", call.Entrypoint)
	}
	if len(call.Command) != 1 || call.Command[0] != containerExamplesDir+"/"+ExampleScriptName {
		t.Errorf("command = %v", call.Command)
	}
	if !call.Remove {
		t.Error("test containers must be removed after exit")
	}
	if len(call.Volumes) != 1 {
		t.Fatalf("volumes = %v, want exactly one mount", call.Volumes)
	}
	mount := call.Volumes[0]
	if !mount.ReadOnly {
		t.Error("examples mount must be read-only")
	}
	wantHost := filepath.Join(string(modulePath), ExamplesDir)
	if string(mount.HostPath) != wantHost {
		t.Errorf("host path = %q, want %q", mount.HostPath, wantHost)
	}
	if string(mount.ContainerPath) != containerExamplesDir {
		t.Errorf("container path = %q, want %q", mount.ContainerPath, containerExamplesDir)
	}
}

func TestTestFailureIsData(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	engine := &fakeEngine{
		imageExists: true,
		runResult:   container.RunResult{ExitCode: 3},
		runOutput:   "figlet: unknown option\n",
	}
	l := newTestLifecycle(nil, engine)

	result, err := l.Test(context.Background(), modulePath, TestOptions{})
	if err != nil {
		t.Fatalf("a failing script must not be an error, got: %v", err)
	}
	if result.Passed {
		t.Error("expected the test to fail")
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
	if !strings.Contains(result.Output, "unknown option") {
		t.Errorf("output = %q", result.Output)
	}
}

func TestTestMissingImage(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	l := newTestLifecycle(nil, &fakeEngine{imageExists: false})

	_, err := l.Test(context.Background(), modulePath, TestOptions{})
	if err == nil {
		t.Fatal("expected error when the image is not built")
	}
	if !strings.Contains(err.Error(), "wrapkit build") {
		t.Errorf("error must suggest building the image first, got: %v", err)
	}
}

func TestTestSelectsTag(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	engine := &fakeEngine{imageExists: true}
	l := newTestLifecycle(nil, engine)

	if _, err := l.Test(context.Background(), modulePath, TestOptions{Tag: "v2"}); err != nil {
		t.Fatalf("Test() returned error: %v", err)
	}
	if got := string(engine.runCalls[0].Image); got != "dockeruser/figlet:v2" {
		t.Errorf("image = %q, want dockeruser/figlet:v2", got)
	}
}

func TestTestTimeout(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	engine := &fakeEngine{imageExists: true, runWaitForCtx: true}
	l := newTestLifecycle(nil, engine)

	_, err := l.Test(context.Background(), modulePath, TestOptions{Timeout: 20 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, proc.ErrTimeout) {
		t.Errorf("expected proc.ErrTimeout, got %v", err)
	}
}

func TestTestInfrastructureFault(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	engine := &fakeEngine{
		imageExists: true,
		runResult:   container.RunResult{Error: errors.New("cannot connect to the daemon")},
	}
	l := newTestLifecycle(nil, engine)

	_, err := l.Test(context.Background(), modulePath, TestOptions{})
	if err == nil {
		t.Fatal("expected error for an engine fault")
	}
	if !strings.Contains(err.Error(), "cannot connect") {
		t.Errorf("error = %v", err)
	}
}

func TestTestMissingExampleScript(t *testing.T) {
	t.Parallel()

	modulePath := mustCreateModule(t, testDescriptor())
	if err := os.RemoveAll(filepath.Join(string(modulePath), ExamplesDir)); err != nil {
		t.Fatalf("failed to remove examples dir: %v", err)
	}

	l := newTestLifecycle(nil, &fakeEngine{imageExists: true})
	_, err := l.Test(context.Background(), modulePath, TestOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrMalformedModule) {
		t.Errorf("expected ErrMalformedModule, got %v", err)
	}
}
