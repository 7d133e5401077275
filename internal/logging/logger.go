package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger for mode: "release" selects the JSON production config,
// anything else the colored development config.
func New(mode string) (*zap.Logger, error) {
	var config zap.Config

	if mode == "release" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}

// Sync flushes logger, ignoring the error stderr returns on some terminals
func Sync(logger *zap.Logger) {
	if logger != nil {
		_ = logger.Sync()
	}
}
