//go:build unix

package pyvenv

import (
	"os"

	"golang.org/x/sys/unix"
)

// findExecutable reports whether path is a regular file the current user may execute.
func findExecutable(path string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return "", false
	}
	if unix.Access(path, unix.X_OK) != nil {
		return "", false
	}
	return path, true
}
