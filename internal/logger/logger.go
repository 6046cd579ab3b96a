// Package logger builds the zap loggers used across the tool.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger for the given level and format. Format "json"
// produces production-style structured output; anything else gets the
// development console encoder.
func New(levelStr, format string) *zap.Logger {
	level := zapcore.InfoLevel

	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(level)

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}

	return log
}

// Nop returns a logger that discards everything. Used under --quiet and in
// tests that do not assert on log output.
func Nop() *zap.Logger {
	return zap.NewNop()
}
