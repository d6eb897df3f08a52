package pyvenv

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestReadProject(t *testing.T) {
	dir := t.TempDir()
	content := `[build-system]
requires = ["maturin>=1.5,<2.0"]
build-backend = "maturin"

[project]
name = "fastext"
version = "0.3.1"
requires-python = ">=3.9"

[tool.maturin]
features = ["pyo3/extension-module"]
`
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := ReadProject(dir)
	if err != nil {
		t.Fatalf("ReadProject failed: %v", err)
	}
	if p.Name != "fastext" || p.Version != "0.3.1" || p.RequiresPython != ">=3.9" {
		t.Errorf("unexpected project %+v", p)
	}
	if !p.UsesMaturin() {
		t.Error("expected a maturin project")
	}
	if len(p.BuildRequires) != 1 || p.BuildRequires[0] != "maturin>=1.5,<2.0" {
		t.Errorf("unexpected build requirements %v", p.BuildRequires)
	}
}

func TestReadProjectMissing(t *testing.T) {
	_, err := ReadProject(t.TempDir())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestReadProjectInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[project\nname = "), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadProject(dir)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}
