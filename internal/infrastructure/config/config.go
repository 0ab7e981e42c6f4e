package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, default=dev-secret-change-me"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	// TokenTTL bounds the lifetime of API tokens issued at login.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`

	Stream StreamConfig
	Seed   SeedConfig
}

type StreamConfig struct {
	// Interval between demo stream updates.
	Interval time.Duration `env:"STREAM_INTERVAL, default=2s"`
}

type SeedConfig struct {
	// AutoLogin places the first seed user in the session slot at startup,
	// matching the portal's "already signed in" demo state.
	AutoLogin bool `env:"SEED_AUTO_LOGIN, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
