package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("schema validation failed")

// ValidationError carries the full, ordered issue list a schema reported.
type ValidationError struct {
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	noun := "issues"
	if len(e.Issues) == 1 {
		noun = "issue"
	}
	return fmt.Sprintf("%v: %d %s: %s", ErrValidation, len(e.Issues), noun, strings.Join(parts, "; "))
}

// Unwrap returns ErrValidation for errors.Is support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
