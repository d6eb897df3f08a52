package pyvenv

import (
	"bytes"
	"errors"
	"os/exec"
	"unicode/utf8"
)

// Output is the captured result of a command that exited successfully.
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// RunChecked starts cmd, waits for it to finish and captures stdout and stderr
// in full. A zero exit status returns the captured output unchanged.
//
// Failures are reported as:
//   - *SpawnError when the process could not be started
//   - *ExitError when it exited with a non-zero status
//   - *DecodeError when it failed and its output is not valid UTF-8
//
// The command must not have Stdout or Stderr set.
func RunChecked(cmd *exec.Cmd) (*Output, error) {
	if cmd.Stdout != nil {
		return nil, errors.New("pyvenv: Stdout already set")
	}
	if cmd.Stderr != nil {
		return nil, errors.New("pyvenv: Stderr already set")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return &Output{
			ExitCode: cmd.ProcessState.ExitCode(),
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
		}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return nil, &SpawnError{Command: cmd.String(), Err: err}
	}

	status := exitErr.ProcessState.String()
	if !utf8.Valid(stdout.Bytes()) {
		return nil, &DecodeError{Stream: "stdout", Status: status, Command: cmd.String()}
	}
	if !utf8.Valid(stderr.Bytes()) {
		return nil, &DecodeError{Stream: "stderr", Status: status, Command: cmd.String()}
	}

	return nil, &ExitError{
		Status:   status,
		ExitCode: exitErr.ExitCode(),
		Command:  cmd.String(),
		Args:     append([]string(nil), cmd.Args...),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}
