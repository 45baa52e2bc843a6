package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

func init() {
	// A nop logger stands in until Init runs.
	global.Store(zap.NewNop())
}

// Init builds the process-wide production logger at the given level.
// Unrecognised level strings run at info.
func Init(level string) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	built, err := cfg.Build()
	if err != nil {
		return err
	}

	global.Store(built)
	return nil
}

// ParseLevel maps a level string onto a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	var parsed zapcore.Level
	if err := parsed.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return parsed
}

// Logger returns the current process logger.
func Logger() *zap.Logger {
	return global.Load()
}

// WithComponent returns a child logger tagged with the component name.
func WithComponent(component string) *zap.Logger {
	return Logger().With(zap.String("component", component))
}

// Sync flushes buffered entries, typically right before exit.
func Sync() error {
	return Logger().Sync()
}
