package slacknet

import (
	"fmt"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// Logger is the interface used by [Client], [HTTP] and [JSONSettings] for
// structured logging. Context is passed as alternating key/value pairs.
// Implement this interface to integrate with your logging library and
// supply it via [WithLogger] or [WithSerializationLogger].
//
// A Logger that panics never affects the outcome of an API call.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(err error, msg string, keysAndValues ...any)
}

// NoopLogger is a [Logger] that silently discards all log messages.
// It is the default logger used when no logger is provided.
type NoopLogger struct{}

func (l *NoopLogger) Debug(_ string, _ ...any)          {}
func (l *NoopLogger) Info(_ string, _ ...any)           {}
func (l *NoopLogger) Error(_ error, _ string, _ ...any) {}

// SlogLogger adapts a [*slog.Logger] to [Logger].
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, keysAndValues ...any) { s.l.Debug(msg, keysAndValues...) }
func (s *SlogLogger) Info(msg string, keysAndValues ...any)  { s.l.Info(msg, keysAndValues...) }

func (s *SlogLogger) Error(err error, msg string, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err)
	}
	s.l.Error(msg, keysAndValues...)
}

// LogrusLogger adapts a logrus logger or entry to [Logger].
type LogrusLogger struct {
	l logrus.FieldLogger
}

func NewLogrusLogger(l logrus.FieldLogger) *LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusLogger{l: l}
}

func (g *LogrusLogger) Debug(msg string, keysAndValues ...any) {
	g.l.WithFields(logrusFields(keysAndValues)).Debug(msg)
}

func (g *LogrusLogger) Info(msg string, keysAndValues ...any) {
	g.l.WithFields(logrusFields(keysAndValues)).Info(msg)
}

func (g *LogrusLogger) Error(err error, msg string, keysAndValues ...any) {
	entry := g.l.WithFields(logrusFields(keysAndValues))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func logrusFields(keysAndValues []any) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)

	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 == len(keysAndValues) {
			fields[key] = nil
			break
		}
		fields[key] = keysAndValues[i+1]
	}

	return fields
}

// safeLogger shields callers from panicking Logger implementations.
type safeLogger struct {
	l Logger
}

func newSafeLogger(l Logger) Logger {
	if l == nil {
		return &NoopLogger{}
	}
	if s, ok := l.(safeLogger); ok {
		return s
	}
	return safeLogger{l: l}
}

func (s safeLogger) Debug(msg string, keysAndValues ...any) {
	defer func() { _ = recover() }()
	s.l.Debug(msg, keysAndValues...)
}

func (s safeLogger) Info(msg string, keysAndValues ...any) {
	defer func() { _ = recover() }()
	s.l.Info(msg, keysAndValues...)
}

func (s safeLogger) Error(err error, msg string, keysAndValues ...any) {
	defer func() { _ = recover() }()
	s.l.Error(err, msg, keysAndValues...)
}

// restyLogger routes resty's own diagnostics into a Logger.
type restyLogger struct {
	l Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error(nil, fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Info(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
