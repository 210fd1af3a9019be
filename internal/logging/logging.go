// Package logging builds the zap logger used by the command line tools.
// Diagnostics go to stderr so stdout stays free for the record stream.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func ParseLevel(s string) (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zap.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

func New(level string) (*zap.Logger, error) {
	return NewWriter(level, os.Stderr)
}

// NewWriter logs in console format to w.
func NewWriter(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}

// Nop is used where no logger was configured.
func Nop() *zap.Logger {
	return zap.NewNop()
}
