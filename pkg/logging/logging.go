// Package logging holds the small logger contract shared by the form-state
// packages. Library code only reports developer mistakes (validation contract
// violations, missing rules); it never logs on the happy path.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is satisfied by *log.Logger from github.com/charmbracelet/log.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

var (
	defaultOnce   sync.Once
	defaultLogger *log.Logger
)

// Default returns the process-wide logger writing to stderr with the
// "formstate" prefix.
func Default() Logger {
	defaultOnce.Do(func() {
		defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "formstate",
			Level:  log.WarnLevel,
		})
	})
	return defaultLogger
}

// New builds a charmbracelet logger for the given writer. Verbose lowers the
// level to debug.
func New(w io.Writer, prefix string, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: prefix,
		Level:  level,
	})
}

// Discard returns a logger that drops every message.
func Discard() Logger {
	return discard{}
}

// OrDefault returns l, or Default when l is nil.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Default()
	}
	return l
}

type discard struct{}

func (discard) Debug(any, ...any) {}
func (discard) Warn(any, ...any)  {}
