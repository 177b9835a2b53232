package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger: JSON to stdout, level from config.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// LogError records a failure with module/operation context. Full error detail
// belongs here, not in HTTP responses.
func LogError(log *logrus.Logger, module string, op string, requestID string, err error) {
	log.WithFields(logrus.Fields{
		"module":    module,
		"op":        op,
		"requestId": requestID,
	}).Error(err.Error())
}
