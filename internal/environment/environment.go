// Package environment fronts every environment variable the shell reads.
// The shell carries no flags and no config files; env vars are its entire
// configuration surface.
package environment

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GetHome returns the home directory the cd built-in targets when called
// with no argument. Empty when HOME is unset.
func GetHome() string {
	return os.Getenv("HOME")
}

// GetLogLevel reads GUISH_LOG_LEVEL and falls back to info on anything
// unrecognized.
func GetLogLevel() zap.AtomicLevel {
	val := strings.ToLower(strings.TrimSpace(os.Getenv("GUISH_LOG_LEVEL")))
	if val == "" {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var level zapcore.Level
	if err := level.Set(val); err != nil {
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zap.NewAtomicLevelAt(level)
}
