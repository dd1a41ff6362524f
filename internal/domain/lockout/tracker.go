package lockout

import (
	"context"
	"time"
)

// Tracker counts failed authentication attempts per account identifier
// inside a sliding window and issues timed lockouts once the threshold is
// reached. Account identifiers are treated case-preserving as supplied.
type Tracker interface {
	// RecordFailure appends a failure at the current instant, prunes
	// entries older than the attempt window and, when the pruned count
	// reaches the configured maximum, (re)arms the lockout expiry.
	RecordFailure(ctx context.Context, account string) error

	// IsLocked reports whether the account is currently locked and, if so,
	// the whole seconds remaining (rounded up). Reading an expired lockout
	// clears both the lockout and the attempt history as a side effect.
	IsLocked(ctx context.Context, account string) (bool, int, error)

	// Reset clears all tracked state for the account; a successful login
	// transitions straight to clear regardless of prior state.
	Reset(ctx context.Context, account string) error

	// Remaining prunes the attempt history and returns how many failures
	// are left before lockout. It does not consult lockout state.
	Remaining(ctx context.Context, account string) (int, error)

	// CleanupExpired reclaims memory held by expired lockouts and empty
	// attempt histories. Pure housekeeping; observable behaviour of the
	// other operations is unchanged.
	CleanupExpired(ctx context.Context) error

	Close(ctx context.Context) error
}

// Driver identifiers supported by the lockout domain.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Policy defaults. The sliding-window and lockout-from-trigger semantics are
// load-bearing; these numbers are merely tunable.
const (
	DefaultMaxAttempts     = 5
	DefaultAttemptWindow   = 10 * time.Minute
	DefaultLockoutDuration = 15 * time.Minute
)

// Config describes the tracker policy and store selection.
type Config struct {
	Driver          string
	MaxAttempts     int
	AttemptWindow   time.Duration
	LockoutDuration time.Duration
	Redis           *RedisConfig
	Memory          *MemoryConfig
}

// MemoryConfig holds in-memory tuning knobs.
type MemoryConfig struct {
	GCInterval time.Duration
}

// RedisConfig captures connection options for the shared keyed store used
// by multi-instance deployments.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = DefaultAttemptWindow
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = DefaultLockoutDuration
	}
	return c
}

// remainingSeconds converts a duration into whole seconds rounded up, never
// below one for a strictly positive input.
func remainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
