// Package logger builds charmbracelet/log loggers for the command line tools.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to stderr that respects the global log level.
func New(prefix string) *log.Logger {
	return NewTo(os.Stderr, prefix)
}

// NewTo is New writing to w.
func NewTo(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// SetLevel parses level ("debug", "info", "warn", "error") and applies it
// globally. debug forces the debug level regardless of level.
func SetLevel(level string, debug bool) error {
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}
