package logger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xraph/bridge/logger"
)

func TestNoopLogger(t *testing.T) {
	noopLog := logger.NewNoopLogger()

	var _ logger.Logger = noopLog

	noopLog.Debug("debug message")
	noopLog.Info("info message", logger.String("k", "v"))
	noopLog.Warnf("warn %v", true)
	noopLog.Errorf("error %s", "test")

	chained := noopLog.With(logger.String("k1", "v1")).Named("chained")
	chained.Info("discarded")

	assert.NoError(t, noopLog.Sync())
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromCore(core).Named("bridge").With(logger.String("scope_id", "root"))

	log.Info("scope created",
		logger.Int("depth", 2),
		logger.Duration("elapsed", 5*time.Millisecond),
		logger.Bool("root", false),
	)
	log.Error("disposal failed", logger.Error(errors.New("close: boom")))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "scope created", first.Message)
	assert.Equal(t, "bridge", first.LoggerName)
	ctx := first.ContextMap()
	assert.Equal(t, "root", ctx["scope_id"])
	assert.EqualValues(t, 2, ctx["depth"])
	assert.Equal(t, false, ctx["root"])

	second := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, second.Level)
	assert.Equal(t, "close: boom", second.ContextMap()["error"])
}

func TestFieldAccessors(t *testing.T) {
	f := logger.String("service", "Logger")
	assert.Equal(t, "service", f.Key())
	assert.Equal(t, "Logger", f.Value())
	assert.Equal(t, "service", f.ZapField().Key)

	err := errors.New("x")
	ef := logger.Error(err)
	assert.Equal(t, "error", ef.Key())
	assert.Equal(t, err, ef.Value())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"nonsense", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerVariants(t *testing.T) {
	cases := []logger.LoggingConfig{
		{Level: "debug", Format: "console"},
		{Level: "info", Format: "json"},
		{Level: "warn", Environment: "production"},
	}

	for _, cfg := range cases {
		l := logger.NewLogger(cfg)
		require.NotNil(t, l)
		l.Debug("variant check", logger.Any("cfg", cfg))
	}
}
