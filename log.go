package pyvenv

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var defaultLogger atomic.Pointer[log.Logger]

func init() {
	defaultLogger.Store(log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "pyvenv",
	}))
}

// Logger returns the package logger used by environments created without
// an explicit Options.Logger.
func Logger() *log.Logger {
	return defaultLogger.Load()
}

// SetLogger replaces the package logger. Passing nil is a no-op.
// Environments that were already created keep the logger they started with.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(l)
}
