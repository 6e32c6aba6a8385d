package pipeline

import "fmt"

// RenderError represents a failed render. LogPath is set when a log was persisted.
type RenderError struct {
	Message string
	LogPath string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render error: %s", e.Message)
	if e.LogPath != "" {
		msg += fmt.Sprintf(" (see %s)", e.LogPath)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
