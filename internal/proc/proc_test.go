// SPDX-License-Identifier: MPL-2.0

package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type (
	// mockCommandRecorder captures arguments passed to exec.CommandContext for
	// verification. It uses the TestHelperProcess pattern to simulate
	// command execution.
	mockCommandRecorder struct {
		// Invocations records each call to the mock exec command
		Invocations []mockInvocation
		// ExitCode is the exit code to return (0 = success)
		ExitCode int
		// Stdout is the output to write to stdout
		Stdout string
		// Stderr is the output to write to stderr
		Stderr string
	}

	// mockInvocation represents a single invocation of the mock exec command.
	mockInvocation struct {
		Name string
		Args []string
	}
)

// CommandFunc returns a function that can replace execCommand for testing.
func (m *mockCommandRecorder) CommandFunc(t *testing.T) ExecCommandFunc {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		m.Invocations = append(m.Invocations, mockInvocation{Name: name, Args: args})

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", m.ExitCode),
			fmt.Sprintf("GO_HELPER_STDOUT=%s", m.Stdout),
			fmt.Sprintf("GO_HELPER_STDERR=%s", m.Stderr),
		}
		return cmd
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	if os.Getenv("GO_HELPER_SLEEP") == "1" {
		time.Sleep(5 * time.Second)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}

	os.Exit(exitCode)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunnerCapturesOutput(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{Stdout: "built ok\n", Stderr: "warning: deprecated\n"}
	runner := NewRunner(WithExecCommand(recorder.CommandFunc(t)), WithLogger(quietLogger()))

	result, err := runner.Run(context.Background(), Invocation{
		Name: "builder",
		Args: []string{"build", "."},
		Dir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.ExitCode.IsSuccess() {
		t.Errorf("ExitCode = %v, want success", result.ExitCode)
	}
	if result.Stdout != "built ok\n" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
	if result.Stderr != "warning: deprecated\n" {
		t.Errorf("Stderr = %q", result.Stderr)
	}

	if len(recorder.Invocations) != 1 {
		t.Fatalf("invocations = %d, want 1", len(recorder.Invocations))
	}
	if recorder.Invocations[0].Name != "builder" {
		t.Errorf("invocation name = %q", recorder.Invocations[0].Name)
	}
}

func TestRunnerNonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{ExitCode: 3, Stderr: "bad flag\n"}
	runner := NewRunner(WithExecCommand(recorder.CommandFunc(t)), WithLogger(quietLogger()))

	result, err := runner.Run(context.Background(), Invocation{Name: "tool", Args: []string{"--bogus"}})
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %v, want 3", result.ExitCode)
	}
	if result.Stderr != "bad flag\n" {
		t.Errorf("Stderr = %q", result.Stderr)
	}
}

func TestRunnerMissingProgramIsAnError(t *testing.T) {
	t.Parallel()

	runner := NewRunner(WithLogger(quietLogger()))

	_, err := runner.Run(context.Background(), Invocation{Name: "wrapkit-no-such-binary-zz"})
	if err == nil {
		t.Fatal("expected start failure for missing binary")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("start failure must not be classified as timeout")
	}
}

func TestRunnerEmptyNameRejected(t *testing.T) {
	t.Parallel()

	runner := NewRunner(WithLogger(quietLogger()))
	if _, err := runner.Run(context.Background(), Invocation{}); err == nil {
		t.Fatal("expected error for empty invocation name")
	}
}

func TestRunnerTimeout(t *testing.T) {
	t.Parallel()

	slow := func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1", "GO_HELPER_SLEEP=1"}
		return cmd
	}
	runner := NewRunner(WithExecCommand(slow), WithLogger(quietLogger()))

	_, err := runner.Run(context.Background(), Invocation{
		Name:    "slow-tool",
		Timeout: 50 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error type = %T, want *TimeoutError", err)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Error("TimeoutError must unwrap to ErrTimeout")
	}
	if timeoutErr.Name != "slow-tool" {
		t.Errorf("TimeoutError.Name = %q", timeoutErr.Name)
	}
}

func TestResultCombinedOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{name: "both streams", result: Result{Stdout: "out", Stderr: "err"}, want: "out\nerr"},
		{name: "stdout only", result: Result{Stdout: "out"}, want: "out"},
		{name: "stderr only", result: Result{Stderr: "err"}, want: "err"},
		{name: "empty", result: Result{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.result.CombinedOutput(); got != tt.want {
				t.Errorf("CombinedOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithTempScript(t *testing.T) {
	t.Parallel()

	var seen string
	err := WithTempScript("#!/bin/sh\necho hi\n", func(path string) error {
		seen = path
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		if string(data) != "#!/bin/sh\necho hi\n" {
			t.Errorf("script content = %q", data)
		}
		info, statErr := os.Stat(path)
		if statErr != nil {
			return statErr
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Error("script should be executable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTempScript() error = %v", err)
	}

	if _, statErr := os.Stat(seen); !os.IsNotExist(statErr) {
		t.Errorf("temp script %s should be removed after the call", seen)
	}
}

func TestWithTempScriptRemovesOnCallbackError(t *testing.T) {
	t.Parallel()

	var seen string
	wantErr := errors.New("callback failed")
	err := WithTempScript("echo", func(path string) error {
		seen = path
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want callback error", err)
	}
	if _, statErr := os.Stat(seen); !os.IsNotExist(statErr) {
		t.Errorf("temp script %s should be removed on the error path", seen)
	}
}
