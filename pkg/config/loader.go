// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/geopin/geopin-bot/pkg/logger"
)

// Load reads configuration from YAML files and environment variables, validates it, and returns the resulting Config.
// Changes to the log level in the config file are picked up at runtime.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// missing env files are fine
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		logger.SetLevel(v.GetString("log.level"))
	})
	v.WatchConfig()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.path", "data/geopin.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	// token has no file entry; registering the key lets AutomaticEnv
	// pick up BOT_TOKEN during Unmarshal
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.timeout", 10*time.Second)
	v.SetDefault("bot.api_base_url", "http://localhost:8080")
	v.SetDefault("bot.session_ttl", time.Hour)
	v.SetDefault("bot.cleanup_interval", 10*time.Minute)
	v.SetDefault("bot.health_addr", ":8081")
}
