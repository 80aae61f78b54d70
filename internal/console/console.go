// Package console provides the leveled logger used for operator output.
package console

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process wide operator logger.
var Logger = New(os.Stderr)

// Log is a printf style leveled logger backed by zap.
type Log struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// New creates a logger writing human readable lines to w at info level.
func New(w io.Writer) *Log {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)

	return &Log{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Log {
	return &Log{
		sugar: zap.NewNop().Sugar(),
		level: zap.NewAtomicLevelAt(zapcore.FatalLevel),
	}
}

// SetDebug enables or disables debug output.
func (l *Log) SetDebug(enabled bool) {
	if enabled {
		l.level.SetLevel(zapcore.DebugLevel)
		return
	}
	l.level.SetLevel(zapcore.InfoLevel)
}

// DebugEnabled reports whether debug output is on.
func (l *Log) DebugEnabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *Log) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Log) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Log) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Log) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Printf logs at debug level so a Log can be used as a Debugger.
func (l *Log) Printf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Zap returns the underlying structured logger.
func (l *Log) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Sync flushes buffered output.
func (l *Log) Sync() error {
	return l.sugar.Sync()
}
