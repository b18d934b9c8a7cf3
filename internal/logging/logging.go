// Package logging builds the application's logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout at the given level.
//
// format is "text" (human readable, full timestamps) or "json" (one object
// per line, for log shippers).
func New(level, format string) (*logrus.Logger, error) {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(out io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.Out = out
	log.SetLevel(lvl)

	switch format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}

	return log, nil
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}
