// Package pyvenv sets up isolated Python virtual environments and runs
// commands inside them.
//
// It is a thin layer over three external tools: uv creates environments and
// installs packages, maturin builds native Rust extensions, and pytest runs
// tests. pyvenv builds the environment layout, points PATH and VIRTUAL_ENV
// at it, and reports whether each tool succeeded.
//
// # Environments
//
// An ephemeral environment lives in a fresh temporary directory that is
// removed by Close:
//
//	env, err := pyvenv.New()
//	if err != nil {
//	    return err
//	}
//	defer env.Close()
//
// A persistent environment lives in the project's .venv directory, is reused
// when it already exists, and is never removed:
//
//	env, err := pyvenv.NewPersistent()
//
// Both constructors install pytest and maturin before returning.
//
// # Setup chains
//
// Setup steps return the environment so they can be chained. A failed step
// closes the environment and returns nil:
//
//	env, err = env.Install("numpy")
//	if err != nil {
//	    return err
//	}
//	env, err = env.MaturinDevelop()
//
// # Running commands
//
//	out, err := env.RunModule("pytest", "-s", "tests/")
//	err = env.RunPytest()
//
//	cmd := env.Command("python", "-c", "import sys; print(sys.prefix)")
//	out, err := pyvenv.RunChecked(cmd)
//
// Every command goes through RunChecked. A non-zero exit becomes an
// *ExitError carrying the exit status, the command line and both output
// streams; a command that cannot start becomes a *SpawnError.
//
// # Freezing
//
// FreezeToFile records the installed packages as MessagePack, and Restore
// installs them into another environment:
//
//	err := env.FreezeToFile("env.msgpack")
//	spec, err := pyvenv.LoadSpecFile("env.msgpack")
//	other, err = other.Restore(spec)
package pyvenv
