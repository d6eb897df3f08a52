//go:build windows

package pyvenv

import (
	"os"
	"path/filepath"
	"strings"
)

// findExecutable tries path as given when it already carries an executable
// extension, then with each extension listed in PATHEXT.
func findExecutable(path string) (string, bool) {
	exts := pathExts()
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		for _, e := range exts {
			if ext == e && isFile(path) {
				return path, true
			}
		}
	}
	for _, e := range exts {
		if candidate := path + e; isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func pathExts() []string {
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		return []string{".com", ".exe", ".bat", ".cmd"}
	}
	var exts []string
	for _, e := range strings.Split(strings.ToLower(pathext), ";") {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
