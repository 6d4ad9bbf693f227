package config

import (
	"time"

	"github.com/geopin/geopin-bot/pkg/logger"
	"github.com/geopin/geopin-bot/pkg/redis"
)

// Config holds runtime configuration for the API server and the bot.
type Config struct {
	AppEnv string        `mapstructure:"app_env" validate:"required"`
	Log    logger.Config `mapstructure:"log"`

	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Bot      BotConfig      `mapstructure:"bot"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig points at the SQLite database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// RedisConfig wraps the shared redis client settings with an enable switch.
// When disabled the bot falls back to in-memory session storage.
type RedisConfig struct {
	Enabled bool `mapstructure:"enabled"`
	redis.Config `mapstructure:",squash"`
}

// BotConfig configures the Telegram front-end.
type BotConfig struct {
	Token           string        `mapstructure:"token"`
	Name            string        `mapstructure:"name"`
	Timeout         time.Duration `mapstructure:"timeout"`
	APIBaseURL      string        `mapstructure:"api_base_url" validate:"omitempty,url"`
	MapURL          string        `mapstructure:"map_url" validate:"omitempty,url"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	// HealthAddr is where the bot exposes /health and /metrics.
	HealthAddr string `mapstructure:"health_addr"`
}

// SentryConfig enables error reporting to Sentry.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}
