// Package sandbox runs build commands inside an ephemeral, isolated container workspace.
package sandbox

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is classification
var (
	ErrEngineUnavailable = errors.New("container engine unavailable")
	ErrRecipeNotFound    = errors.New("build recipe not found")
	ErrBuildFailure      = errors.New("image build failed")
	ErrExecutionFailure  = errors.New("sandbox execution failed")
)

// EngineUnavailableError is returned when the engine binary is not on the host
type EngineUnavailableError struct {
	Engine string
	Cause  error
}

func (e *EngineUnavailableError) Error() string {
	return fmt.Sprintf("sandbox error: %s CLI not found; install it and make sure it is on PATH: %v", e.Engine, e.Cause)
}

func (e *EngineUnavailableError) Unwrap() error { return e.Cause }

func (e *EngineUnavailableError) Is(target error) bool { return target == ErrEngineUnavailable }

// RecipeNotFoundError is returned when the build recipe path does not exist
type RecipeNotFoundError struct {
	Path  string
	Cause error
}

func (e *RecipeNotFoundError) Error() string {
	return fmt.Sprintf("sandbox error: build recipe not found: %s", e.Path)
}

func (e *RecipeNotFoundError) Unwrap() error { return e.Cause }

func (e *RecipeNotFoundError) Is(target error) bool { return target == ErrRecipeNotFound }

// BuildFailureError is returned when the image build exits nonzero
type BuildFailureError struct {
	Image    string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *BuildFailureError) Error() string {
	return fmt.Sprintf("sandbox error: image build %s failed (code %d)\nSTDOUT:\n%s\nSTDERR:\n%s", e.Image, e.ExitCode, e.Stdout, e.Stderr)
}

func (e *BuildFailureError) Is(target error) bool { return target == ErrBuildFailure }

// ExecutionFailureError is returned when the command inside the sandbox exits nonzero
type ExecutionFailureError struct {
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExecutionFailureError) Error() string {
	return fmt.Sprintf("sandbox error: run failed (code %d)\nSTDOUT:\n%s\nSTDERR:\n%s", e.ExitCode, e.Stdout, e.Stderr)
}

func (e *ExecutionFailureError) Is(target error) bool { return target == ErrExecutionFailure }

// WorkspaceError represents a failure preparing or reading the ephemeral workspace
type WorkspaceError struct {
	Message string
	Cause   error
}

func (e *WorkspaceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("workspace error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("workspace error: %s", e.Message)
}

func (e *WorkspaceError) Unwrap() error {
	return e.Cause
}
