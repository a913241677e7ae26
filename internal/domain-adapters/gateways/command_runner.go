package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// CommandResult contains the outcome of an external command
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Success reports whether the command exited with status 0
func (r *CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner runs package-manager commands on behalf of scanners
type CommandRunner interface {
	// Run executes name with args. A non-zero exit is reported through
	// CommandResult, not as an error; err is set only when the command
	// could not be started or timed out.
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates a command runner with a per-command timeout
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ExecRunner{timeout: timeout}
}

// Run executes the command and captures its output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	execCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	//nolint:gosec // G204: command names are fixed package-manager binaries
	cmd := exec.CommandContext(execCtx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &CommandResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(execCtx.Err(), context.DeadlineExceeded):
			return result, fmt.Errorf("%s timed out after %v", name, r.timeout)
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		default:
			return result, fmt.Errorf("failed to execute %s: %w", name, err)
		}
	}

	return result, nil
}
