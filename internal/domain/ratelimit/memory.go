package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowCount struct {
	start time.Time
	count int
}

type memoryLimiter struct {
	mutex   sync.Mutex
	windows map[string]windowCount
	now     func() time.Time
}

// NewMemory builds an in-process fixed-window counter.
func NewMemory() Limiter {
	return &memoryLimiter{
		windows: make(map[string]windowCount),
		now:     time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string, limit int) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	now := l.now()
	bucket := now.Truncate(window)

	l.mutex.Lock()
	defer l.mutex.Unlock()

	wc, ok := l.windows[key]
	if !ok || !wc.start.Equal(bucket) {
		wc = windowCount{start: bucket}
	}
	wc.count++
	l.windows[key] = wc

	// Opportunistic sweep keeps the map from accumulating dead windows.
	if len(l.windows) > 4096 {
		for k, v := range l.windows {
			if !v.start.Equal(bucket) {
				delete(l.windows, k)
			}
		}
	}

	return wc.count <= limit, nil
}

func (l *memoryLimiter) Close(context.Context) error {
	return nil
}
