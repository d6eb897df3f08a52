package pyvenv

import (
	"errors"
	"io/fs"
)

// MaturinDevelop builds the extension in the current directory and installs
// it into the environment in development mode.
func (e *Environment) MaturinDevelop() (*Environment, error) {
	return e.AddMaturinDep(".")
}

// AddMaturinDep runs `maturin develop --uv` in dir, building the native
// extension found there and installing it into the environment with uv.
// On failure the environment is closed.
func (e *Environment) AddMaturinDep(dir string) (*Environment, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	project, err := ReadProject(dir)
	switch {
	case err == nil:
		e.logger.Info("building native extension", "project", project.Name, "version", project.Version, "dir", dir)
		if !project.UsesMaturin() {
			e.logger.Warn("build backend is not maturin", "backend", project.BuildBackend, "dir", dir)
		}
	case errors.Is(err, fs.ErrNotExist):
		e.logger.Debug("no pyproject.toml found", "dir", dir)
	default:
		e.logger.Warn("unable to read project metadata", "dir", dir, "err", err)
	}

	cmd := e.Command(e.opts.Maturin, "develop", "--uv")
	cmd.Dir = dir
	if _, err := e.run(cmd); err != nil {
		return e.chainFailed(err)
	}
	return e, nil
}
