// Package logger builds the zap logger shared by every command.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config logging settings
type Config struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	// File when set, JSON logs are also written to this rotated file
	File string `mapstructure:"file"`
	// Quiet drops the console sink; the TUI owns the terminal
	Quiet bool `mapstructure:"-"`
}

// New console encoder in development, JSON in production
func New(cfg Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		lv, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = lv
	}

	var cores []zapcore.Core
	if !cfg.Quiet {
		encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		if cfg.Development {
			encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	}
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			level,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), opts...), nil
}
