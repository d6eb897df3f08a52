package pyvenv

// Install installs packages into the environment with `uv pip install`.
// Package arguments are passed through verbatim, so version specifiers
// ("numpy>=2") and local paths work as they do on the uv command line.
//
// Installing already-satisfied packages succeeds. On failure the
// environment is closed and the error describes the command and its output.
func (e *Environment) Install(packages ...string) (*Environment, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	args := append([]string{"pip", "install"}, packages...)
	if _, err := e.run(e.Command(e.opts.UV, args...)); err != nil {
		return e.chainFailed(err)
	}

	e.logger.Debug("installed packages", "packages", packages, "root", e.root)
	return e, nil
}
