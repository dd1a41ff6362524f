package lockout

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisTracker keeps attempt history in a sorted set per account (scored by
// failure time) and the lockout expiry in a plain key. Shared across process
// instances; the sliding-window and lockout semantics match the memory
// driver exactly.
type redisTracker struct {
	cfg    Config
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedis constructs a redis-backed tracker.
func NewRedis(cfg Config) (Tracker, error) {
	cfg = cfg.withDefaults()
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "lockout:"
	}
	return &redisTracker{
		cfg:    cfg,
		client: client,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

func (t *redisTracker) attemptsKey(account string) string {
	return t.prefix + "attempts:" + account
}

func (t *redisTracker) lockKey(account string) string {
	return t.prefix + "lock:" + account
}

func (t *redisTracker) RecordFailure(ctx context.Context, account string) error {
	now := t.now()
	key := t.attemptsKey(account)
	windowStart := now.Add(-t.cfg.AttemptWindow)

	pipe := t.client.TxPipeline()
	// Unique member per failure; two failures in the same instant must both
	// count toward the threshold.
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart.UnixNano(), 10))
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, t.cfg.AttemptWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if card.Val() >= int64(t.cfg.MaxAttempts) {
		until := now.Add(t.cfg.LockoutDuration)
		return t.client.Set(ctx, t.lockKey(account),
			strconv.FormatInt(until.UnixNano(), 10), t.cfg.LockoutDuration).Err()
	}
	return nil
}

func (t *redisTracker) IsLocked(ctx context.Context, account string) (bool, int, error) {
	raw, err := t.client.Get(ctx, t.lockKey(account)).Result()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}

	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Unreadable lock entry; treat as clear and drop it.
		_ = t.Reset(ctx, account)
		return false, 0, nil
	}

	now := t.now()
	until := time.Unix(0, nanos)
	if !now.Before(until) {
		if err := t.Reset(ctx, account); err != nil {
			return false, 0, err
		}
		return false, 0, nil
	}
	return true, remainingSeconds(until.Sub(now)), nil
}

func (t *redisTracker) Reset(ctx context.Context, account string) error {
	return t.client.Del(ctx, t.attemptsKey(account), t.lockKey(account)).Err()
}

func (t *redisTracker) Remaining(ctx context.Context, account string) (int, error) {
	now := t.now()
	key := t.attemptsKey(account)
	windowStart := now.Add(-t.cfg.AttemptWindow)

	pipe := t.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(windowStart.UnixNano(), 10))
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	left := t.cfg.MaxAttempts - int(card.Val())
	if left < 0 {
		left = 0
	}
	return left, nil
}

func (t *redisTracker) CleanupExpired(context.Context) error {
	// Redis reclaims both key families via TTL.
	return nil
}

func (t *redisTracker) Close(context.Context) error {
	return t.client.Close()
}
