package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/richinsley/pyvenv"
)

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the environment and install pytest and maturin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.open()
			if err != nil {
				return err
			}
			defer env.Close()

			fmt.Fprintln(cmd.OutOrStdout(), env.Root())
			return nil
		},
	}
}

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install <package>...",
		Short: "Install packages into the environment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			env, err := a.open()
			if err != nil {
				return err
			}
			defer env.Close()

			if _, err := env.Install(args...); err != nil {
				return err
			}
			a.logger.Info("installed packages", "count", len(args), "root", env.Root())
			return nil
		},
	}
}

func newDevelopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "develop [dir]",
		Short: "Build a maturin project and install it in development mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			env, err := a.open()
			if err != nil {
				return err
			}
			defer env.Close()

			_, err = env.AddMaturinDep(dir)
			return err
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <module> [args...]",
		Short: "Run a Python module inside the environment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.open()
			if err != nil {
				return err
			}
			defer env.Close()

			out, err := env.RunModule(args[0], args[1:]...)
			if err != nil {
				var exitErr *pyvenv.ExitError
				if errors.As(err, &exitErr) {
					io.WriteString(cmd.OutOrStdout(), exitErr.Stdout)
					io.WriteString(cmd.ErrOrStderr(), exitErr.Stderr)
					return childFailed(exitErr)
				}
				return err
			}

			cmd.OutOrStdout().Write(out.Stdout)
			cmd.ErrOrStderr().Write(out.Stderr)
			return nil
		},
	}
	// Everything after the module name belongs to the module.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that pytest runs and report tool versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.open()
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.RunPytest(); err != nil {
				return err
			}
			tv, err := env.ToolVersions()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "environment: %s\n", env.Root())
			fmt.Fprintf(w, "python:      %s\n", tv.Python)
			fmt.Fprintf(w, "uv:          %s\n", tv.UV)
			fmt.Fprintf(w, "maturin:     %s\n", tv.Maturin)
			fmt.Fprintf(w, "pytest:      %s\n", tv.Pytest)
			return nil
		},
	}
}

func newFreezeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "freeze <file>",
		Short: "Write the installed packages to a spec file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			env, err := a.open()
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.FreezeToFile(args[0]); err != nil {
				return err
			}
			a.logger.Info("wrote environment spec", "file", args[0])
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Install the packages listed in a spec file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			spec, err := pyvenv.LoadSpecFile(args[0])
			if err != nil {
				return err
			}

			env, err := a.open()
			if err != nil {
				return err
			}
			defer env.Close()

			if _, err := env.Restore(spec); err != nil {
				return err
			}
			a.logger.Info("restored environment", "packages", len(spec.Packages), "root", env.Root())
			return nil
		},
	}
}
