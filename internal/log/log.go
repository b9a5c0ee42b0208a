// Package log builds the zap loggers used across the module.
package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger at level (debug, info, warn or error) writing
// to paths, or to stderr when none are given.
func New(level string, paths ...string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	config.OutputPaths = paths
	config.ErrorOutputPaths = paths
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("can't initialize zap logger: %w", err)
	}
	return logger, nil
}

// ParseLevel accepts the level names used in scenario files. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// Sync flushes logger, ignoring the error stderr returns on some terminals.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
