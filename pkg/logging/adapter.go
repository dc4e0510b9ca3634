package logging

import (
	"log"
	"strings"
)

// stdWriter routes lines written by a standard library *log.Logger into a structured Logger
type stdWriter struct {
	logger Logger
	level  Level
}

func (w *stdWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg == "" {
		return len(p), nil
	}

	level := w.level
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "error") || strings.Contains(lower, "panic") {
		level = ErrorLevel
	}

	switch level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// NewStdLogger returns a *log.Logger whose output lands in logger at the given level.
// Lines mentioning an error or panic are promoted to ErrorLevel.
// Libraries that only accept *log.Logger (the stdio protocol server, net/http.Server) use this.
func NewStdLogger(logger Logger, component string, level Level) *log.Logger {
	return log.New(&stdWriter{
		logger: logger.WithFields(String("component", component)),
		level:  level,
	}, "", 0)
}
