package pyvenv

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"
)

// quietOptions returns options whose logger discards output.
func quietOptions() Options {
	return Options{Logger: log.New(io.Discard)}
}

// skipWithoutShell skips tests that install /bin/sh scripts as fake tools.
func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// writeTool writes an executable shell script named name into dir.
func writeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write tool %s: %v", name, err)
	}
	return path
}

// fakeUV is a uv stand-in: "venv ... DIR" creates DIR/bin and
// "pip ..." appends its arguments to $VIRTUAL_ENV/uv.log.
const fakeUV = `case "$1" in
venv)
	for last; do :; done
	mkdir -p "$last/bin"
	;;
pip)
	echo "$@" >> "$VIRTUAL_ENV/uv.log"
	;;
esac`

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
