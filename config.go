package bridge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
	errs "github.com/xraph/bridge/internal/errors"
	"github.com/xraph/bridge/logger"
	"github.com/xraph/bridge/observability"
	"gopkg.in/yaml.v3"
)

// Re-export observability configuration.
type (
	MetricsConfig = observability.MetricsConfig
	TracingConfig = observability.TracingConfig
)

// Config configures a service provider.
type Config struct {
	// ValidateScopes rejects scoped services resolved from the root provider,
	// including through singletons.
	ValidateScopes bool `yaml:"validate_scopes" env:"BRIDGE_VALIDATE_SCOPES"`

	Logging logger.LoggingConfig        `yaml:"logging"`
	Metrics observability.MetricsConfig `yaml:"metrics"`
	Tracing observability.TracingConfig `yaml:"tracing"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Logging: logger.LoggingConfig{
			Level:       "info",
			Format:      "console",
			Environment: "development",
		},
		Metrics: observability.DefaultMetricsConfig(),
		Tracing: observability.DefaultTracingConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errs.ErrConfigError("failed to read config file", err).WithContext("path", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errs.ErrConfigError("failed to parse config file", err).WithContext("path", path)
	}
	return cfg, nil
}

// LoadConfigFromEnv loads the given .env files, or ./.env when it exists, and
// applies BRIDGE_* variables over the defaults. Variables already set in the
// process environment take precedence over .env files.
func LoadConfigFromEnv(envFiles ...string) (Config, error) {
	cfg := DefaultConfig()

	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.ErrConfigError("failed to load .env", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return cfg, errs.ErrConfigError("failed to load env files", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment variables named by their env
// tags. Empty variables are ignored.
func (c *Config) ApplyEnv() error {
	return applyEnv(reflect.ValueOf(c).Elem())
}

func applyEnv(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			if err := applyEnv(field); err != nil {
				return err
			}
			continue
		}

		key := t.Field(i).Tag.Get("env")
		if key == "" {
			continue
		}
		raw, ok := os.LookupEnv(key)
		if !ok || raw == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return errs.ErrInvalidConfig(key, err)
			}
			field.SetBool(b)
		case reflect.Float64:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return errs.ErrInvalidConfig(key, err)
			}
			field.SetFloat(f)
		default:
			return errs.ErrInvalidConfig(key, fmt.Errorf("unsupported field kind %s", field.Kind()))
		}
	}
	return nil
}
