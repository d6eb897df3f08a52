package pyvenv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Project is the subset of a pyproject.toml used to describe an extension
// before it is built.
type Project struct {
	Name           string
	Version        string
	RequiresPython string
	BuildBackend   string
	BuildRequires  []string
}

type pyproject struct {
	Project struct {
		Name           string `toml:"name"`
		Version        string `toml:"version"`
		RequiresPython string `toml:"requires-python"`
	} `toml:"project"`
	BuildSystem struct {
		Requires     []string `toml:"requires"`
		BuildBackend string   `toml:"build-backend"`
	} `toml:"build-system"`
}

// ReadProject reads dir/pyproject.toml. A missing file yields an error
// matching fs.ErrNotExist.
func ReadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, "pyproject.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading project file: %w", err)
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	return &Project{
		Name:           doc.Project.Name,
		Version:        doc.Project.Version,
		RequiresPython: doc.Project.RequiresPython,
		BuildBackend:   doc.BuildSystem.BuildBackend,
		BuildRequires:  doc.BuildSystem.Requires,
	}, nil
}

// UsesMaturin reports whether the project is built by maturin.
func (p *Project) UsesMaturin() bool {
	return p.BuildBackend == "maturin"
}
