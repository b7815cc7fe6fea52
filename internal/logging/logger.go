// Package logging builds the zap logger used by hook commands.
//
// Hooks talk to their host over stdout, so diagnostics only ever go to a log
// file, and only when debug mode is on.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/flywheel-dev/flywheel-hooks/internal/config"
)

// New returns a file-backed debug logger when cfg.Debug is set, and a no-op
// logger otherwise. Failing to open the log file also yields a no-op logger.
func New(cfg *config.Config) *zap.Logger {
	if cfg == nil || !cfg.Debug || cfg.LogFile == "" {
		return zap.NewNop()
	}

	logger, err := build(cfg.LogFile)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func build(logFile string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, err
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	loggerConfig.OutputPaths = []string{logFile}
	loggerConfig.ErrorOutputPaths = []string{logFile}

	return loggerConfig.Build()
}
