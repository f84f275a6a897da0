// Package config loads the service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevSecretKey signs tokens when JWT_SECRET_KEY is unset. It is only fit for
// local development.
const DevSecretKey = "task-api-dev-secret-change-in-production"

// Config holds all runtime settings.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":3000"`

	DBPath  string `env:"DB_PATH"  envDefault:"tasks.db"`
	DBDebug bool   `env:"DB_DEBUG" envDefault:"false"`

	JWTSecretKey string        `env:"JWT_SECRET_KEY"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"task-api"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"  envDefault:"60m"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	UserCacheTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"10m"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = DevSecretKey
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values env.Parse cannot.
func (c Config) Validate() error {
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if len(c.JWTSecretKey) < 16 {
		return errors.New("JWT_SECRET_KEY must be at least 16 bytes")
	}
	return nil
}

// UsingDevSecret reports whether tokens are signed with the built-in secret.
func (c Config) UsingDevSecret() bool {
	return c.JWTSecretKey == DevSecretKey
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
