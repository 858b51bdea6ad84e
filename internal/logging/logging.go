// Package logging builds the dashboard's zap logger. The TUI owns the
// terminal, so log lines go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger appending to path at level. A level of "off"
// returns a no-op logger and creates nothing. The returned close function
// flushes and closes the file.
func New(path, level string) (*zap.SugaredLogger, func() error, error) {
	if level == "off" {
		return zap.NewNop().Sugar(), func() error { return nil }, nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.New: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging.New: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.New: open log file: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), zap.NewAtomicLevelAt(lvl))
	logger := zap.New(core).Sugar()

	closeFn := func() error {
		_ = logger.Sync() //nolint:errcheck // fsync on some files returns EINVAL
		return f.Close()
	}
	return logger, closeFn, nil
}
