package gateways

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeRunner returns canned results keyed by the full command line
type fakeRunner struct {
	results map[string]*CommandResult
	errs    map[string]error
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]*CommandResult{}, errs: map[string]error{}}
}

func (f *fakeRunner) on(cmdline string, exitCode int, stdout string) *fakeRunner {
	f.results[cmdline] = &CommandResult{ExitCode: exitCode, Stdout: []byte(stdout)}
	return f
}

func (f *fakeRunner) fail(cmdline string, err error) *fakeRunner {
	f.errs[cmdline] = err
	return f
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (*CommandResult, error) {
	cmdline := strings.TrimSpace(name + " " + strings.Join(args, " "))
	f.calls = append(f.calls, cmdline)
	if err, ok := f.errs[cmdline]; ok {
		return nil, err
	}
	if res, ok := f.results[cmdline]; ok {
		return res, nil
	}
	return nil, fmt.Errorf("failed to execute %s: executable file not found in $PATH", name)
}

func TestExecRunner_Run_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	runner := NewExecRunner(10 * time.Second)
	result, err := runner.Run(context.Background(), "sh", "-c", "echo 'Hello, World!'")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if !result.Success() {
		t.Errorf("Run() exit code = %d, want 0", result.ExitCode)
	}

	if string(result.Stdout) != "Hello, World!\n" {
		t.Errorf("Run() stdout = %q, want %q", result.Stdout, "Hello, World!\n")
	}
}

func TestExecRunner_Run_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	runner := NewExecRunner(10 * time.Second)
	result, err := runner.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 42")
	if err != nil {
		t.Fatalf("Run() should report exit codes without error, got: %v", err)
	}

	if result.ExitCode != 42 {
		t.Errorf("Run() exit code = %d, want 42", result.ExitCode)
	}
	if strings.TrimSpace(string(result.Stdout)) != "out" {
		t.Errorf("Run() stdout = %q", result.Stdout)
	}
	if strings.TrimSpace(string(result.Stderr)) != "err" {
		t.Errorf("Run() stderr = %q", result.Stderr)
	}
}

func TestExecRunner_Run_MissingBinary(t *testing.T) {
	runner := NewExecRunner(10 * time.Second)
	_, err := runner.Run(context.Background(), "extenscan-definitely-not-installed")
	if err == nil {
		t.Fatal("Run() should fail for a missing binary")
	}
}

func TestExecRunner_Run_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	runner := NewExecRunner(100 * time.Millisecond)
	_, err := runner.Run(context.Background(), "sh", "-c", "sleep 5")
	if err == nil {
		t.Fatal("Run() should time out")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Run() error = %v, want timeout", err)
	}
}

func TestNewExecRunner_DefaultTimeout(t *testing.T) {
	runner := NewExecRunner(0)
	if runner.timeout != 2*time.Minute {
		t.Errorf("default timeout = %v, want 2m", runner.timeout)
	}
}
