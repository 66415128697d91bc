package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret   string `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTLMin   int    `env:"JWT_TTL_MIN" envDefault:"60" validate:"min=1,max=1440"`
	JWTIssuer   string `env:"JWT_ISSUER" envDefault:"financing-api"`
	JWTAudience string `env:"JWT_AUDIENCE" envDefault:"financing-api-clients"`

	RedisAddr         string `env:"REDIS_ADDR"`
	LoginRateLimit    int    `env:"LOGIN_RATE_LIMIT" envDefault:"10" validate:"min=1,max=1000"`
	LoginRateWindowSec int   `env:"LOGIN_RATE_WINDOW_SEC" envDefault:"60" validate:"min=1,max=3600"`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`

	OverdueCron string `env:"OVERDUE_CRON" envDefault:"0 2 * * *"`
}

func Load() (*Config, error) {
	// Local development reads .env; deployed environments inject real vars.
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.JWTSecret == "change-me-in-production" {
		return nil, errors.New("JWT_SECRET is still the placeholder value")
	}

	return cfg, nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLMin) * time.Minute
}

func (c *Config) LoginRateWindow() time.Duration {
	return time.Duration(c.LoginRateWindowSec) * time.Second
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func (c *Config) SlogLevel() slog.Level {
	if c.Env == "local" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
