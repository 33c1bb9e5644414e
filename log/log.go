// Package log holds the process-wide zap logger used by the server, the
// static build and the CLI.
package log

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newLogger()
)

func newLogger() *zap.Logger {
	encConfig := zap.NewDevelopmentEncoderConfig()
	encConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encConfig.EncodeCaller = nil
	encConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.StampMicro))
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if os.Getenv("DEBUG") != "" {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encConfig),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))
}

// S returns a *[zap.SugaredLogger].
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// L returns a *[zap.Logger].
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Replace swaps the process logger and returns a function restoring the
// previous one. Tests use it with zap.NewNop or zaptest loggers.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := logger
	logger = l
	mu.Unlock()
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
