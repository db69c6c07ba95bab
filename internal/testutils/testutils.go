package testutils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// QuietLogger returns a logger that discards everything, for tests that
// exercise failure paths noisily
func QuietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	log.SetOutput(io.Discard)
	return log
}
