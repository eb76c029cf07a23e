package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap sugared logger with debug flag
type Logger struct {
	debug bool
	*zap.SugaredLogger
}

// New creates a new logger writing to stderr
func New(debug bool) *Logger {
	return NewWithWriter(debug, os.Stderr)
}

// NewWithWriter creates a console logger writing to w. Debug messages are dropped unless debug is set.
func NewWithWriter(debug bool, w io.Writer) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return FromZap(zap.New(core), debug)
}

// FromZap wraps an existing zap logger
func FromZap(l *zap.Logger, debug bool) *Logger {
	return &Logger{debug: debug, SugaredLogger: l.Sugar()}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return FromZap(zap.NewNop(), false)
}

// Named returns a child logger with the given name
func (l *Logger) Named(name string) *Logger {
	return &Logger{debug: l.debug, SugaredLogger: l.SugaredLogger.Named(name)}
}

// Printf logs at info level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}

// Println logs at info level
func (l *Logger) Println(v ...interface{}) {
	l.Infoln(v...)
}

// Sync flushes buffered entries; errors from syncing a terminal are ignored
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
