// Package logger builds charmbracelet/log loggers for the wordrank commands.
// Logs go to stderr so stdout stays free for the msgpack stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a new default charm log.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Setup replaces the package-level default logger used across wordrank.
// Debug switches to debug level and caller reporting; otherwise only
// warnings and errors are shown.
func Setup(debug bool) {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	log.SetDefault(NewWithConfig(os.Stderr, "wordrank", level, debug, debug, log.TextFormatter))
}
