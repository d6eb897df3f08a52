// Package config loads pyvenv settings using Viper.
//
// Settings come from, in increasing order of precedence: built-in defaults,
// a pyvenv.toml or pyvenv.yaml file in the search directory (or the file
// named with --config), and PYVENV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/richinsley/pyvenv"
)

const (
	// AppName is the application name.
	AppName = "pyvenv"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "pyvenv"
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "PYVENV"
)

// Config holds the settings of the pyvenv command.
type Config struct {
	UV               string   `mapstructure:"uv"`
	Maturin          string   `mapstructure:"maturin"`
	Pytest           string   `mapstructure:"pytest"`
	Python           string   `mapstructure:"python"`
	BaselinePackages []string `mapstructure:"baseline_packages"`
	PersistentDir    string   `mapstructure:"persistent_dir"`
	TempDir          string   `mapstructure:"temp_dir"`
	LogLevel         string   `mapstructure:"log_level"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// SearchDir is where pyvenv.toml or pyvenv.yaml is looked up.
	// Empty means the working directory.
	SearchDir string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	opts := pyvenv.DefaultOptions()
	return &Config{
		UV:               opts.UV,
		Maturin:          opts.Maturin,
		Pytest:           opts.Pytest,
		Python:           opts.Python,
		BaselinePackages: opts.BaselinePackages,
		PersistentDir:    opts.PersistentDir,
		TempDir:          "",
		LogLevel:         log.InfoLevel.String(),
	}
}

// Load reads the configuration.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("uv", defaults.UV)
	v.SetDefault("maturin", defaults.Maturin)
	v.SetDefault("pytest", defaults.Pytest)
	v.SetDefault("python", defaults.Python)
	v.SetDefault("baseline_packages", defaults.BaselinePackages)
	v.SetDefault("persistent_dir", defaults.PersistentDir)
	v.SetDefault("temp_dir", defaults.TempDir)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath != "" {
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.ConfigFilePath, err)
		}
	} else {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			// If no config file found, use defaults (no error)
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level returns the parsed log level.
func (c *Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Options converts the configuration into environment options.
func (c *Config) Options() pyvenv.Options {
	return pyvenv.Options{
		UV:               c.UV,
		Maturin:          c.Maturin,
		Pytest:           c.Pytest,
		Python:           c.Python,
		BaselinePackages: c.BaselinePackages,
		PersistentDir:    c.PersistentDir,
		TempDirParent:    c.TempDir,
	}
}

// NewLogger returns a stderr logger at the configured level.
func (c *Config) NewLogger() (*log.Logger, error) {
	lvl, err := c.Level()
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: AppName,
		Level:  lvl,
	}), nil
}
