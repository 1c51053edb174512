package logging

import (
	"fmt"
	"log/slog"

	"github.com/pion/logging"
)

// PionLoggerFactory routes pion's internal logging into slog.
type PionLoggerFactory struct {
	Logger *slog.Logger
}

// NewLogger implements logging.LoggerFactory.
func (f *PionLoggerFactory) NewLogger(scope string) logging.LeveledLogger {
	l := f.Logger
	if l == nil {
		l = slog.Default()
	}
	return &pionLogger{sl: l.With("pion-scope", scope)}
}

type pionLogger struct {
	sl *slog.Logger
}

// Trace implements logging.LeveledLogger. pion traces are very chatty, they
// go to debug.
func (p *pionLogger) Trace(msg string) {
	p.sl.Debug(msg)
}

func (p *pionLogger) Tracef(format string, args ...any) {
	p.sl.Debug(fmt.Sprintf(format, args...))
}

func (p *pionLogger) Debug(msg string) {
	p.sl.Debug(msg)
}

func (p *pionLogger) Debugf(format string, args ...any) {
	p.sl.Debug(fmt.Sprintf(format, args...))
}

func (p *pionLogger) Info(msg string) {
	p.sl.Info(msg)
}

func (p *pionLogger) Infof(format string, args ...any) {
	p.sl.Info(fmt.Sprintf(format, args...))
}

func (p *pionLogger) Warn(msg string) {
	p.sl.Warn(msg)
}

func (p *pionLogger) Warnf(format string, args ...any) {
	p.sl.Warn(fmt.Sprintf(format, args...))
}

func (p *pionLogger) Error(msg string) {
	p.sl.Error(msg)
}

func (p *pionLogger) Errorf(format string, args ...any) {
	p.sl.Error(fmt.Sprintf(format, args...))
}

var _ logging.LoggerFactory = (*PionLoggerFactory)(nil)
