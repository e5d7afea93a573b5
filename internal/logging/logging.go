// Package logging configures the process-wide logger and hands out
// component-scoped entries.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var root = logrus.New()

// Init configures the root logger. The level string follows logrus
// conventions ("debug", "info", "warn", "error"); an empty string keeps
// the default of "info".
func Init(level string, out io.Writer) error {
	if out != nil {
		root.SetOutput(out)
	}
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	root.SetLevel(parsed)
	root.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}

// Component returns a logger entry tagged with the given component name.
// All server subsystems log through entries obtained here so output can
// be filtered per component.
func Component(name string) *logrus.Entry {
	return logrus.NewEntry(root).WithField("component", name)
}
