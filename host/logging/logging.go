// Package logging builds the zap loggers the host tools share.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLoggerConfig returns a console config that logs Info and above to
// stdout, without stack traces and with colored levels.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a named console logger. debug lowers the level to Debug.
func NewLogger(name string, debug bool) (*zap.SugaredLogger, error) {
	cfg := NewLoggerConfig()
	if debug {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().Named(name), nil
}

// BoardWriter returns a function that logs each board trace line at a level
// chosen by its content: failures at Warn, everything else at Debug.
func BoardWriter(l *zap.SugaredLogger) func(string) {
	return func(line string) {
		if isFailure(line) {
			l.Warnw("board", "line", line)
			return
		}
		l.Debugw("board", "line", line)
	}
}

func isFailure(line string) bool {
	for _, marker := range failureMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

var failureMarkers = []string{"failed", "timeout", "refused", "stuck"}
