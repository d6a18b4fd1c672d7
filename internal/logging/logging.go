// Package logging configures the structured logger shared by the
// server, the session runtime and the codec.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a text-formatted logrus.Logger at the given level. An
// unrecognized level falls back to Info rather than failing startup.
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}
