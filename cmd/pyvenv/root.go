package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/richinsley/pyvenv"
	"github.com/richinsley/pyvenv/internal/config"
)

// app holds the state shared by every subcommand.
type app struct {
	cfgFile   string
	verbose   bool
	ephemeral bool

	cfg    *config.Config
	logger *log.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pyvenv",
		Short: "Manage a Python virtual environment for a native extension project",
		Long: `pyvenv creates a Python virtual environment with uv, installs pytest
and maturin into it, and runs tools inside it.

By default the environment lives in .venv and is reused across runs.
With --ephemeral a throwaway environment is created in a temporary
directory and removed when the command finishes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./pyvenv.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every command that is run")
	root.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "use a temporary environment instead of the persistent one")

	root.AddCommand(
		newCreateCmd(a),
		newInstallCmd(a),
		newDevelopCmd(a),
		newRunCmd(a),
		newCheckCmd(a),
		newFreezeCmd(a),
		newRestoreCmd(a),
	)
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup() error {
	cfg, err := config.Load(config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	if a.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	a.cfg = cfg
	a.logger = logger
	pyvenv.SetLogger(logger)
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}
	return nil
}

// open creates or reuses the environment selected by the flags.
func (a *app) open() (*pyvenv.Environment, error) {
	opts := a.cfg.Options()
	opts.Logger = a.logger
	if a.ephemeral {
		return pyvenv.NewWithOptions(opts)
	}
	return pyvenv.NewPersistentWithOptions(opts)
}
