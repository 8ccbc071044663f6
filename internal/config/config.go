package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DBSource  string `env:"DB_SOURCE"`
	RedisAddr string `env:"REDIS_ADDR"`
	Port      string `env:"SERVER_PORT" envDefault:"8080"`
	Env       string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from environment variables. DB_SOURCE and
// REDIS_ADDR may both be empty: the server then runs entirely on the
// in-memory snapshot cache.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
