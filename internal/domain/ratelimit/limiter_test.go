package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newMemoryForTest(t *testing.T) (Limiter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	limiter := NewMemory()
	limiter.(*memoryLimiter).now = clock.Now
	t.Cleanup(func() {
		_ = limiter.Close(context.Background())
	})
	return limiter, clock
}

func TestMemoryLimiter_EnforcesLimit(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newMemoryForTest(t)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "user:u-1", 3)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	ok, err := limiter.Allow(ctx, "user:u-1", 3)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if ok {
		t.Fatal("fourth request in the window should be rejected")
	}
}

func TestMemoryLimiter_WindowRollover(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newMemoryForTest(t)

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow(ctx, "10.0.0.1:80", 2); !ok {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if ok, _ := limiter.Allow(ctx, "10.0.0.1:80", 2); ok {
		t.Fatal("over-limit request should be rejected")
	}

	clock.Advance(window)
	if ok, _ := limiter.Allow(ctx, "10.0.0.1:80", 2); !ok {
		t.Fatal("fresh window should admit the request")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newMemoryForTest(t)

	if ok, _ := limiter.Allow(ctx, "user:a", 1); !ok {
		t.Fatal("first key should pass")
	}
	if ok, _ := limiter.Allow(ctx, "user:a", 1); ok {
		t.Fatal("first key should be exhausted")
	}
	if ok, _ := limiter.Allow(ctx, "user:b", 1); !ok {
		t.Fatal("second key must not be affected")
	}
}

func TestMemoryLimiter_ZeroLimitDisables(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newMemoryForTest(t)
	for i := 0; i < 10; i++ {
		if ok, _ := limiter.Allow(ctx, "user:a", 0); !ok {
			t.Fatal("non-positive limit disables counting")
		}
	}
}

func newRedisForTest(t *testing.T) (Limiter, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	limiter, err := NewRedis(&RedisConfig{Addr: mr.Addr(), Prefix: "test:rl:"})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	clock := newFakeClock()
	limiter.(*redisLimiter).now = clock.Now
	t.Cleanup(func() {
		_ = limiter.Close(context.Background())
	})
	return limiter, clock
}

func TestRedisLimiter_EnforcesLimitAndRollsOver(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newRedisForTest(t)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "user:u-9", 3)
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if ok, _ := limiter.Allow(ctx, "user:u-9", 3); ok {
		t.Fatal("over-limit request should be rejected")
	}

	clock.Advance(window)
	ok, err := limiter.Allow(ctx, "user:u-9", 3)
	if err != nil {
		t.Fatalf("Allow after rollover: %v", err)
	}
	if !ok {
		t.Fatal("fresh window should admit the request")
	}
}

func TestFactory(t *testing.T) {
	limiter, err := New(&Config{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("New memory: %v", err)
	}
	_ = limiter.Close(context.Background())

	if _, err := New(&Config{Driver: "etcd"}); err == nil {
		t.Fatal("unknown driver should fail")
	}
}
