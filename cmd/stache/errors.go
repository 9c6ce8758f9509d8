package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/stache/schema"
	"github.com/randalmurphal/stache/template"
)

// Exit codes.
const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitUsage      = 2
	ExitValidation = 3
	ExitMissing    = 4
	ExitCancelled  = 5
)

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitCancelled
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, schema.ErrValidation):
		return ExitValidation
	case errors.Is(err, template.ErrMissingValue):
		return ExitMissing
	default:
		return ExitError
	}
}

// handleError prints err and returns the exit code. Validation failures
// list every issue on its own line.
func handleError(cmd *cobra.Command, err error) int {
	code := exitCode(err)
	switch code {
	case ExitSuccess:
		return code
	case ExitCancelled:
		cmd.PrintErrln("Operation cancelled")
		return code
	}

	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		cmd.PrintErrln("Error: data failed validation:")
		for _, issue := range verr.Issues {
			cmd.PrintErrf("  - %s\n", issue)
		}
		return code
	}

	cmd.PrintErrf("Error: %v\n", err)
	if code == ExitUsage {
		cmd.PrintErrf("Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return code
}
