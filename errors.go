package pyvenv

import (
	"errors"
	"fmt"
)

var (
	// ErrPathUnset is returned when the calling process has no PATH variable
	// to build the environment's search path from.
	ErrPathUnset = errors.New("PATH environment variable is not set")

	// ErrClosed is returned by operations on an ephemeral environment whose
	// directory has already been removed.
	ErrClosed = errors.New("environment is closed")
)

// ExitError reports an external command that ran but exited unsuccessfully.
// Stdout and Stderr hold the complete captured output of the command.
type ExitError struct {
	// Status is the textual exit status, e.g. "exit status 1" or "signal: killed".
	Status string

	// ExitCode is the numeric exit code, or -1 if the process was terminated by a signal.
	ExitCode int

	// Command is the rendered command line (executable and arguments).
	Command string

	// Args holds the command's argv, including the executable as Args[0].
	Args []string

	Stdout string
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("error %s while running command: %s. Output: \n%s\n%s", e.Status, e.Command, e.Stdout, e.Stderr)
}

// DecodeError reports captured output of a failed command that is not valid
// UTF-8 text. It replaces the ExitError that would otherwise be returned.
type DecodeError struct {
	// Stream is "stdout" or "stderr".
	Stream string

	// Status is the exit status of the command whose output failed to decode.
	Status string

	Command string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s of command %s (%s) is not valid UTF-8", e.Stream, e.Command, e.Status)
}

// SpawnError reports an external command that could not be started at all,
// for example because the executable is missing or not permitted to run.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("error starting command %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
