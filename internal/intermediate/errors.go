// Package intermediate expands a career document into the language-resolved
// document handed to the template stage.
package intermediate

import "fmt"

// ExpandError represents a document that cannot be expanded
type ExpandError struct {
	Message string
	Cause   error
}

func (e *ExpandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("expand error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("expand error: %s", e.Message)
}

func (e *ExpandError) Unwrap() error {
	return e.Cause
}
