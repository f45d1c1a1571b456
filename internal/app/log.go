package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the component-scoped logging shape shared by every subsystem.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// CharmLogger adapts a charmbracelet logger to Logger. Debug-level output is
// gated by the underlying logger's level.
type CharmLogger struct {
	l *charmlog.Logger
}

// NewCharmLogger writes timestamped, leveled lines to w.
func NewCharmLogger(w io.Writer, debug bool) CharmLogger {
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}
	return CharmLogger{l: charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})}
}

func (c CharmLogger) Infof(component string, format string, args ...interface{}) {
	c.l.With("component", component).Info(fmt.Sprintf(format, args...))
}

func (c CharmLogger) Errorf(component string, format string, args ...interface{}) {
	c.l.With("component", component).Error(fmt.Sprintf(format, args...))
}

func (c CharmLogger) Debugf(component string, format string, args ...interface{}) {
	c.l.With("component", component).Debug(fmt.Sprintf(format, args...))
}

// Slog exposes the same sink as a *slog.Logger for libraries that take one.
func (c CharmLogger) Slog() *slog.Logger {
	return slog.New(c.l)
}

type loggerKey struct{}

// WithLogger attaches a logger to ctx.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFrom returns the logger attached to ctx, or a NoopLogger.
func LoggerFrom(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return NoopLogger{}
}
