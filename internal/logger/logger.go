// Package logger provides structured logging using Zap.
package logger

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 14
)

// Init initializes the global logger for the given environment.
// For "production", it uses a JSON encoder. For all other environments,
// it uses a human-readable console encoder. When logFile is non-empty,
// entries are also written to a size-rotated file.
func Init(env, logFile string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}

		if logFile != "" {
			if fileCore, ok := newFileCore(logFile); ok {
				base = base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
					return zapcore.NewTee(c, fileCore)
				}))
			}
		}

		sugar = base.Sugar()
	})
}

// newFileCore builds a JSON core writing to a lumberjack-rotated file.
func newFileCore(path string) (zapcore.Core, bool) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	})

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zapcore.NewCore(encoder, writer, zap.InfoLevel), true
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development", "")
	}
	return sugar
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
