// Package definition provides the default concrete implementation of
// types.Logger, backed by logrus.
package definition

import (
	"github.com/sirupsen/logrus"

	"github.com/jabolina/clusterplayground/pkg/playground/types"
)

// DefaultLogger is the default types.Logger implementation.
// cmd/coordinator builds one and passes it to every component that
// logs; no component falls back to it on its own.
type DefaultLogger struct {
	entry *logrus.Entry
}

// NewDefaultLogger builds a DefaultLogger that writes structured,
// leveled output to stderr with the given component name attached as
// a field.
func NewDefaultLogger(component string) *DefaultLogger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &DefaultLogger{entry: log.WithField("component", component)}
}

// ToggleDebug flips the debug level on or off and returns the new value.
func (l *DefaultLogger) ToggleDebug(on bool) bool {
	if on {
		l.entry.Logger.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.Logger.SetLevel(logrus.InfoLevel)
	}
	return on
}

func (l *DefaultLogger) Info(v ...interface{})                 { l.entry.Info(v...) }
func (l *DefaultLogger) Infof(format string, v ...interface{}) { l.entry.Infof(format, v...) }
func (l *DefaultLogger) Warn(v ...interface{})                 { l.entry.Warn(v...) }
func (l *DefaultLogger) Warnf(format string, v ...interface{}) { l.entry.Warnf(format, v...) }
func (l *DefaultLogger) Error(v ...interface{})                { l.entry.Error(v...) }
func (l *DefaultLogger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}
func (l *DefaultLogger) Debug(v ...interface{})                 { l.entry.Debug(v...) }
func (l *DefaultLogger) Debugf(format string, v ...interface{}) { l.entry.Debugf(format, v...) }
func (l *DefaultLogger) Fatal(v ...interface{})                 { l.entry.Fatal(v...) }
func (l *DefaultLogger) Fatalf(format string, v ...interface{}) { l.entry.Fatalf(format, v...) }

var _ types.Logger = (*DefaultLogger)(nil)
