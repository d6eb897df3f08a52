package main

import (
	"fmt"

	"github.com/richinsley/pyvenv"
)

// ExitError makes the process exit with Code. Err describes the failure
// when the output that explains it has already been forwarded.
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

// childFailed converts a failed child process into an ExitError carrying
// its exit code. Its output is not repeated in the message.
func childFailed(err *pyvenv.ExitError) *ExitError {
	code := err.ExitCode
	// Killed by a signal.
	if code <= 0 {
		code = 1
	}
	return &ExitError{
		Code: code,
		Err:  fmt.Errorf("%s: %s", err.Command, err.Status),
	}
}
