// Package logging builds the zap loggers used by the CLI and the TUI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/slotboard/internal/config"
)

// Sink selects where log output goes.
type Sink int

const (
	// SinkStderr writes human-readable lines to stderr, for the CLI.
	SinkStderr Sink = iota
	// SinkFile writes JSON lines to the configured log file, for the TUI,
	// which owns the terminal.
	SinkFile
)

// New builds a logger for cfg.
func New(cfg config.LogConfig, sink Sink) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var zc zap.Config
	switch sink {
	case SinkFile:
		if cfg.File == "" {
			return zap.NewNop(), nil
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		zc = zap.NewProductionConfig()
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("slotboard"), nil
}

// Sync flushes logger, ignoring the error stderr returns on some terminals.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
