package pyvenv

// RunModule runs `python -m module args...` inside the environment and
// returns its captured output.
func (e *Environment) RunModule(module string, args ...string) (*Output, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	return e.run(e.Command(e.opts.Python, append([]string{"-m", module}, args...)...))
}

// RunPytest checks that pytest is installed and runnable in the environment.
// It does not run a test session; use RunModule("pytest", ...) for that.
func (e *Environment) RunPytest() error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	// -s keeps pytest from capturing output, so a crashing native extension
	// still leaves its panic message in the error.
	_, err := e.run(e.Command(e.opts.Pytest, "-s", "--version"))
	return err
}
