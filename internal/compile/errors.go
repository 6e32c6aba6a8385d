// Package compile decides whether a sandbox build produced a usable artifact
// and which log explains the outcome.
package compile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompileFailure classifies every CompileFailureError
var ErrCompileFailure = errors.New("compile failed")

// CompileFailureError is returned when the resolved exit status is nonzero or
// the primary artifact is missing or empty
type CompileFailureError struct {
	ExitCode int
	// Artifact is the primary output that was expected
	Artifact string
	Command  []string
	// LogTail is the end of the chosen log
	LogTail string
}

func (e *CompileFailureError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("compile error: build failed (exit %d)", e.ExitCode))
	if e.ExitCode == 0 {
		sb.WriteString(fmt.Sprintf(": %s missing or empty", e.Artifact))
	}
	if len(e.Command) > 0 {
		sb.WriteString(fmt.Sprintf("\ncommand: %s", strings.Join(e.Command, " ")))
	}
	if e.LogTail != "" {
		sb.WriteString("\n\n--- log (tail) ---\n")
		sb.WriteString(e.LogTail)
		sb.WriteString("\n--- end ---")
	}
	return sb.String()
}

func (e *CompileFailureError) Is(target error) bool { return target == ErrCompileFailure }
