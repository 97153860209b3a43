// Package app wires startup checks, path resolution and validation to the
// toolkit event loop.
package app

import "fmt"

// Exit codes returned by the control center.
const (
	ExitOK          = 0
	ExitEnvironment = 1 // no display, toolkit failure or missing menu
	ExitInvalidMenu = 2 // menu parse or validation errors
)

// ExitError carries a process exit code to main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}
