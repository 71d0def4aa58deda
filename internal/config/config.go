// Package config loads application settings from environment variables.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the application.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	HTTPPort    string `mapstructure:"HTTP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisEnabled bool   `mapstructure:"REDIS_ENABLED"`

	AliasTablePath string `mapstructure:"ALIAS_TABLE_PATH"`

	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`

	TracingEnabled       bool    `mapstructure:"TRACING_ENABLED"`
	TracingEndpoint      string  `mapstructure:"TRACING_EXPORTER_ENDPOINT"`
	TracingProtocol      string  `mapstructure:"TRACING_EXPORTER_PROTOCOL"`
	TracingSamplingRatio float64 `mapstructure:"TRACING_SAMPLING_RATIO"`

	ExpirySchedule string `mapstructure:"EXPIRY_SCHEDULE"`

	RefreshDebounceMS int `mapstructure:"REFRESH_DEBOUNCE_MS"`
}

var boundKeys = []string{
	"ENVIRONMENT",
	"HTTP_PORT",
	"DATABASE_URL",
	"REDIS_ADDR",
	"REDIS_ENABLED",
	"ALIAS_TABLE_PATH",
	"METRICS_ENABLED",
	"TRACING_ENABLED",
	"TRACING_EXPORTER_ENDPOINT",
	"TRACING_EXPORTER_PROTOCOL",
	"TRACING_SAMPLING_RATIO",
	"EXPIRY_SCHEDULE",
	"REFRESH_DEBOUNCE_MS",
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_SAMPLING_RATIO", 0.1)
	viper.SetDefault("EXPIRY_SCHEDULE", "@daily")
	viper.SetDefault("REFRESH_DEBOUNCE_MS", 2000)
	viper.AutomaticEnv()

	for _, key := range boundKeys {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	err := viper.Unmarshal(&cfg)
	return cfg, err
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
