package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage type values
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config holds the process configuration, populated from environment
// variables
type Config struct {
	Host string `env:"HOST" envDefault:""`
	Port int    `env:"PORT" envDefault:"8080"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`

	// BoardSize is the dimension of new game boards
	BoardSize int `env:"BOARD_SIZE" envDefault:"4"`

	// GamerTTL bounds presence staleness in the redis storage
	GamerTTL time.Duration `env:"GAMER_TTL" envDefault:"1h"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing env config: %w", err)
	}

	if cfg.StorageType != StorageTypeMemory && cfg.StorageType != StorageTypeRedis {
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if cfg.BoardSize < 3 {
		return nil, fmt.Errorf("board size %d is too small", cfg.BoardSize)
	}

	return &cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
