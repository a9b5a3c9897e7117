package logger

import (
	"go.uber.org/zap"
)

// Logger represents the logging interface
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)

	With(fields ...Field) Logger
	Named(name string) Logger

	Sync() error
}

// Field represents a structured log field
type Field interface {
	Key() string
	Value() any
	// ZapField returns the underlying zap.Field for efficient conversion
	ZapField() zap.Field
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" env:"BRIDGE_LOG_LEVEL"`
	Format      string `yaml:"format" env:"BRIDGE_LOG_FORMAT"`
	Environment string `yaml:"environment" env:"BRIDGE_ENVIRONMENT"`
}
