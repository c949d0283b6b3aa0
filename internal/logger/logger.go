// Package logger provides structured logging using zap.
//
// The process-wide logger is configured once by Init. Packages do not log
// through it directly: each component takes a named child with For, so a
// viewer session or a mounted root carries its own scope on every entry.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the root logger. It discards everything until Init runs.
var Log = zap.NewNop()

// Rotation limits for the log file.
const (
	fileMaxSizeMB  = 50
	fileMaxBackups = 3
	fileMaxAgeDays = 7
)

// Init replaces the root logger. Entries at level and above go to stderr
// and, when logFile is set, to a rotating file. Command output on stdout
// stays clean.
func Init(level, logFile string) error {
	var file io.Writer
	if logFile != "" {
		file = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
			Compress:   true,
			LocalTime:  true,
		}
	}
	return initWriters(level, os.Stderr, file)
}

func initWriters(level string, console, file io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var cores []zapcore.Core
	if console != nil {
		cores = append(cores, zapcore.NewCore(
			encoder("15:04:05", zapcore.CapitalColorLevelEncoder),
			zapcore.Lock(zapcore.AddSync(console)),
			lvl))
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(
			encoder("2006-01-02T15:04:05.000Z0700", zapcore.CapitalLevelEncoder),
			zapcore.AddSync(file),
			lvl))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}

func encoder(timeLayout string, level zapcore.LevelEncoder) zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel:      level,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

// ParseLevel maps a configured level name to a zap level. An empty name
// means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("log level %q: %w", level, err)
	}
	return lvl, nil
}

// For returns a child of the root logger named after component and
// carrying fields on every entry. Children taken before Init keep
// discarding.
func For(component string, fields ...zap.Field) *zap.Logger {
	return Log.Named(component).With(fields...)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
