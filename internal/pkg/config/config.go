// Package config loads the development backend's settings.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const devSecret = "samarth-dev-secret-change-me"

type Config struct {
	Port      string        `env:"MOCK_PORT,  default=8000"`
	JWTSecret string        `env:"JWT_SECRET, default=samarth-dev-secret-change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=30m"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=true"`
	// SeedPassword is given to the seeded superadmin and admin accounts.
	SeedPassword string `env:"SEED_PASSWORD, default=password123"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("config: TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return &cfg, nil
}

// UsesDefaultSecret reports whether JWT_SECRET was left at its development value.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == devSecret
}
