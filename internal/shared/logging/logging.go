// Package logging holds the process-wide structured logger.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu         sync.Mutex
	logger     *zap.SugaredLogger
	syncLogger = func() error { return nil }
)

// Options selects encoder and level. Zero value is console at info.
type Options struct {
	Format string // "console" or "json"
	Debug  bool
}

// Configure replaces the global logger. Logs go to stderr so stdout stays
// free for generated source.
func Configure(opts Options) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.MessageKey = "msg"
	encCfg.LevelKey = "level"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(opts.Format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	base := zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))

	mu.Lock()
	defer mu.Unlock()
	logger = base.Sugar()
	syncLogger = base.Sync
	return logger
}

// L returns the global logger, initialising a console logger on first use.
func L() *zap.SugaredLogger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l != nil {
		return l
	}
	return Configure(Options{})
}

// With returns a child of the global logger carrying fields.
func With(args ...interface{}) *zap.SugaredLogger {
	return L().With(args...)
}

// Sync flushes any buffered log entries.
func Sync() error {
	mu.Lock()
	fn := syncLogger
	mu.Unlock()
	if err := fn(); err != nil {
		// stderr on a terminal refuses fsync
		if strings.Contains(err.Error(), "bad file descriptor") ||
			strings.Contains(err.Error(), "invalid argument") ||
			strings.Contains(err.Error(), "inappropriate ioctl") {
			return nil
		}
		return err
	}
	return nil
}
