//go:build !unix && !windows

package pyvenv

import "os"

func findExecutable(path string) (string, bool) {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() || fi.Mode()&0o111 == 0 {
		return "", false
	}
	return path, true
}
