package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Package logger wraps logrus behind message-plus-context call sites so the
// rest of the codebase never deals with logrus entries directly.

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return l
}

// SetLevel adjusts the minimum severity. Unknown values keep the default.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	}
}

// UseJSONFormat switches to JSON output for log aggregation.
func UseJSONFormat() {
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
}

func withContext(context []map[string]interface{}) *logrus.Entry {
	if len(context) == 0 || context[0] == nil {
		return logrus.NewEntry(log)
	}
	return log.WithFields(logrus.Fields(context[0]))
}

// Debug logs a debug message with optional context fields.
func Debug(message string, context ...map[string]interface{}) {
	withContext(context).Debug(message)
}

// Info logs an info message with optional context fields.
func Info(message string, context ...map[string]interface{}) {
	withContext(context).Info(message)
}

// Warn logs a warning message with optional context fields.
func Warn(message string, context ...map[string]interface{}) {
	withContext(context).Warn(message)
}

// Error logs an error message with optional context fields.
func Error(message string, context ...map[string]interface{}) {
	withContext(context).Error(message)
}
