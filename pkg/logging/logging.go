// Package logging wires zerolog for the CLI and library packages.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger at the given level. Console output is used when w is a
// terminal-facing stream such as os.Stderr; other writers receive JSON lines.
func New(level string, w io.Writer) (zerolog.Logger, error) {
	lvl := zerolog.WarnLevel
	if strings.TrimSpace(level) != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return zerolog.Logger{}, err
		}
	}
	if w == nil {
		w = os.Stderr
	}
	if w == os.Stderr || w == os.Stdout {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl), nil
}

// Setup replaces the global logger.
func Setup(level string, w io.Writer) error {
	l, err := New(level, w)
	if err != nil {
		return err
	}
	log.Logger = l
	return nil
}

// Component creates a new logger with a component identifier.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
