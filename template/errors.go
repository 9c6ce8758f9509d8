package template

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/stache/schema"
)

// Sentinel errors for template operations.
var (
	// ErrTypeMismatch is returned when the template is not a string.
	ErrTypeMismatch = errors.New("template must be a string")

	// ErrMissingValue is returned when a placeholder key has no value.
	ErrMissingValue = errors.New("missing value for placeholder")

	// ErrValidation is returned when the schema rejects the data.
	ErrValidation = schema.ErrValidation
)

// TypeMismatchError reports a template argument of the wrong type.
type TypeMismatchError struct {
	Got string // Go type of the argument
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%v, got %s", ErrTypeMismatch, e.Got)
}

// Unwrap returns ErrTypeMismatch for errors.Is support.
func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// MissingValueError reports the first placeholder whose key did not
// resolve.
type MissingValueError struct {
	Key string
}

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingValue, e.Key)
}

// Unwrap returns ErrMissingValue for errors.Is support.
func (e *MissingValueError) Unwrap() error {
	return ErrMissingValue
}
