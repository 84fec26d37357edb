package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// GamerTTL bounds presence staleness: gamer records untouched for this
	// long are expired by Redis. Refreshed on every upsert and touch.
	GamerTTL time.Duration

	// GameTTL expires finished games eventually. Zero means games are kept
	// forever (archival is an external concern).
	GameTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		GamerTTL:     time.Hour,
		GameTTL:      0,
	}
}
