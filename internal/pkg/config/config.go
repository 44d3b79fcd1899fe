package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT      JWTConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Throttle ThrottleConfig
	Audit    AuditConfig
}

// JWTConfig is the token signing configuration. Secret must never be logged.
type JWTConfig struct {
	Secret         string `env:"JWT_SECRET"`
	Issuer         string `env:"JWT_ISSUER,          default=booking-api"`
	Audience       string `env:"JWT_AUDIENCE,        default=booking-clients"`
	ExpiresMinutes int    `env:"JWT_EXPIRES_MINUTES, default=60"`
}

// TTL is the configured token lifetime.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpiresMinutes) * time.Minute
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=booking_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type ThrottleConfig struct {
	MaxFailures   int `env:"LOGIN_MAX_FAILURES,           default=10"`
	WindowMinutes int `env:"LOGIN_FAILURE_WINDOW_MINUTES, default=15"`
}

// Window is the configured failure-counting window.
func (c ThrottleConfig) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
