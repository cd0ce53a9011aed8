// Package log is the application logger. It wraps logrus with a small
// field-oriented API so call sites read log.LogWithFields(log.F("file", p)).Info(...).
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"ezsubs/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single key/value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sends log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends log lines to path.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// Logger is a leveled, structured logger. The zero value is not usable;
// use NewLogger.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogger creates a logger writing text lines to stdout unless options
// say otherwise.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	// Debug lines are filtered by the package-wide debug switch instead.
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
			out = io.MultiWriter(o.out, f)
		} else {
			fmt.Fprintf(o.out, "cannot open log file %s: %v\n", o.file, err)
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...Field) *Logger {
	if len(fields) == 0 {
		return l
	}
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(lf), file: l.file}
}

// WithError attaches err and, for application errors, its kind and
// path or parameter.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error())}
	if kind := errors.KindOf(err); kind != errors.Unknown {
		fields = append(fields, F("error_kind", kind.String()))
	}
	var renameErr *errors.RenameError
	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	switch {
	case errors.As(err, &renameErr):
		fields = append(fields, F("source", renameErr.Source()), F("target", renameErr.Target()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("path", fileErr.Path()))
	case errors.As(err, &configErr):
		fields = append(fields, F("param", configErr.Param()))
	}
	return l.With(fields...)
}

// WithContext is a hook for request-scoped values; ezsubs carries none.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

func (l *Logger) Info(msg string)  { l.entry.Info(msg) }
func (l *Logger) Warn(msg string)  { l.entry.Warn(msg) }
func (l *Logger) Error(msg string) { l.entry.Error(msg) }

func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.entry.Debug(msg)
	}
}

func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

// SetDebug turns debug output on or off for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// IsDebug reports the debug switch.
func IsDebug() bool {
	return isDebug.Load()
}

// SetLevel applies a config level name ("debug", "info", ...). Debug
// also flips the debug switch.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	SetDebug(lvl >= logrus.DebugLevel)
	if lvl < logrus.DebugLevel {
		logger.entry.Logger.SetLevel(lvl)
	} else {
		logger.entry.Logger.SetLevel(logrus.DebugLevel)
	}
	return nil
}

// Configure replaces the package logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Default returns the package logger.
func Default() *Logger {
	return logger
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger with err attached.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with a message.
func LogError(err error, msg string) {
	logger.WithError(err).Error(msg)
}

func Info(msg string)  { logger.Info(msg) }
func Warn(msg string)  { logger.Warn(msg) }
func Error(msg string) { logger.Error(msg) }
func Debug(msg string) { logger.Debug(msg) }

func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
