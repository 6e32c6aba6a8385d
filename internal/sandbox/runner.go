package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandResult holds the captured output of one engine CLI invocation
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner invokes the engine CLI. A nonzero exit is reported through
// ExitCode; err is only set when the process could not run at all or was
// interrupted by ctx, in which case it wraps ctx.Err().
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run executes name with args and captures stdout and stderr separately
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil {
		return result, fmt.Errorf("%s interrupted: %w", name, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}
