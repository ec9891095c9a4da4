// Package logger wraps zap with a request-scoped context logger. Handlers put
// a logger in the request context; repositories and services pull it back out
// with FromContext and add their component name.
package logger

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger.
type Options struct {
	// Level is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string
	// File, when set, tees JSON output into a rotating log file alongside the
	// console encoder on stdout.
	File string
}

// New builds a sugared zap logger from the options.
func New(opts Options) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	level := parseLevel(opts.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), level),
	}
	if opts.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO", "":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var defaultLogger = zap.NewNop().Sugar()

// SetDefault installs the process-wide fallback logger.
func SetDefault(l *zap.SugaredLogger) {
	defaultLogger = l
}

// Default returns the process-wide fallback logger.
func Default() *zap.SugaredLogger {
	return defaultLogger
}

type ctxKey struct{}

// FromContext returns the request-scoped logger, or the default logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return defaultLogger
}

// NewContext stores a logger in the context.
func NewContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
