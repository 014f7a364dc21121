// Package logging builds the zap logger shared by the CLI, the simulator
// and the bodies it drives.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel accepts debug, info, warn, error and off. The empty string is
// treated as warn.
func ParseLevel(level string) (zapcore.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel, true, nil
	case "info":
		return zap.InfoLevel, true, nil
	case "", "warn", "warning":
		return zap.WarnLevel, true, nil
	case "error":
		return zap.ErrorLevel, true, nil
	case "off", "none":
		return zap.FatalLevel, false, nil
	default:
		return 0, false, fmt.Errorf("unknown log level %q", level)
	}
}

// New returns a json logger on stderr. The "off" level yields a no-op
// logger.
func New(level string) (*zap.Logger, error) {
	lvl, enabled, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return zap.NewNop(), nil
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(lvl),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}
