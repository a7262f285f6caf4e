package helper

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsoleLogger returns a development-style zap logger writing to stdout.
func NewConsoleLogger(level zapcore.Level) *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(consoleCore)
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// MustGet is the panic-on-failure variant of a (value, error) getter.
// Use when failure means a broken invariant rather than bad input.
func MustGet[T any](getFn func() (T, error)) T {
	res, err := getFn()
	if err != nil {
		panic(err)
	}
	return res
}
