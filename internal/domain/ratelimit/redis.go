package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

type redisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedis builds a limiter on a shared counter so several instances see
// the same windows.
func NewRedis(cfg *RedisConfig) (Limiter, error) {
	const op = "ratelimit.NewRedis"
	if cfg == nil || cfg.Addr == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, op, "redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &redisLimiter{client: client, prefix: prefix, now: time.Now}, nil
}

func (l *redisLimiter) Allow(ctx context.Context, key string, limit int) (bool, error) {
	const op = "ratelimit.redis.Allow"
	if limit <= 0 {
		return true, nil
	}
	bucket := l.now().Truncate(window).Unix()
	counter := l.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, counter)
	pipe.Expire(ctx, counter, 2*window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, platformerrors.Wrap(platformerrors.KindStorage, op, "count request", err)
	}
	return incr.Val() <= int64(limit), nil
}

func (l *redisLimiter) Close(context.Context) error {
	return l.client.Close()
}
