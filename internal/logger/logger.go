package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trading-journal-go/internal/config"
)

// NewLogger creates a zap.Logger from the logger configuration. The
// "json" format selects the production encoder; anything else gets the
// human-readable development encoder.
func NewLogger(cfg config.Logger) (*zap.Logger, error) {
	logLevel, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	zapCfg.Level = zap.NewAtomicLevelAt(logLevel)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
