package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a production zap logger at the given level. Unknown levels fall
// back to info; a build failure yields a no-op logger.
func New(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = ParseLevel(level)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// ParseLevel maps LOG_LEVEL values onto zap levels.
func ParseLevel(level string) zap.AtomicLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
