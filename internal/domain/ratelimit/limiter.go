package ratelimit

import (
	"context"
	"time"
)

// Limiter is the counting boundary: a fixed-window per-minute counter keyed
// by the partition key from Key. Implementations stand in for the external
// counter service; this package never mixes counting with key derivation.
type Limiter interface {
	// Allow records one request against the key and reports whether it
	// stays within limit requests for the current minute window.
	Allow(ctx context.Context, key string, limit int) (bool, error)

	Close(ctx context.Context) error
}

// Driver identifiers supported by the limiter.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

const window = time.Minute

// Config selects and configures the limiter backend.
type Config struct {
	Driver string
	Redis  *RedisConfig
}

// RedisConfig captures connection options for a shared counter.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}
