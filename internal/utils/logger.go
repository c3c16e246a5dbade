package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const errorLogLevelFormat = "parsing log level %q: %w"

// NewApplicationLogger constructs a zap logger writing human-readable console lines to
// stderr, so rendered trees on stdout stay clean. An empty level means info.
func NewApplicationLogger(level string) (*zap.Logger, error) {
	atomicLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if level != "" {
		if parseError := atomicLevel.UnmarshalText([]byte(level)); parseError != nil {
			return nil, fmt.Errorf(errorLogLevelFormat, level, parseError)
		}
	}
	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}
