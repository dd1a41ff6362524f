package lockout

import (
	"context"
	"sync"
	"time"
)

type memoryTracker struct {
	cfg Config

	mutex    sync.Mutex
	attempts map[string][]time.Time
	lockouts map[string]time.Time

	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory builds an in-process tracker. State does not survive restarts
// or span instances; use the redis driver for multi-instance deployments.
func NewMemory(cfg Config) Tracker {
	cfg = cfg.withDefaults()
	gc := 5 * time.Minute
	if cfg.Memory != nil && cfg.Memory.GCInterval > 0 {
		gc = cfg.Memory.GCInterval
	}
	t := &memoryTracker{
		cfg:      cfg,
		attempts: make(map[string][]time.Time),
		lockouts: make(map[string]time.Time),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go t.gcLoop(gc)
	return t
}

func (t *memoryTracker) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = t.CleanupExpired(context.Background())
		case <-t.stop:
			return
		}
	}
}

// prune drops attempts older than the window relative to now. Caller holds
// the mutex.
func (t *memoryTracker) prune(account string, now time.Time) []time.Time {
	kept := t.attempts[account][:0]
	for _, at := range t.attempts[account] {
		if now.Sub(at) < t.cfg.AttemptWindow {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(t.attempts, account)
		return nil
	}
	t.attempts[account] = kept
	return kept
}

func (t *memoryTracker) RecordFailure(_ context.Context, account string) error {
	now := t.now()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.attempts[account] = append(t.attempts[account], now)
	recent := t.prune(account, now)

	if len(recent) >= t.cfg.MaxAttempts {
		t.lockouts[account] = now.Add(t.cfg.LockoutDuration)
	}
	return nil
}

func (t *memoryTracker) IsLocked(_ context.Context, account string) (bool, int, error) {
	now := t.now()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	until, ok := t.lockouts[account]
	if !ok {
		return false, 0, nil
	}
	if !now.Before(until) {
		// Expired lockout reads as clear and drops all state.
		delete(t.lockouts, account)
		delete(t.attempts, account)
		return false, 0, nil
	}
	return true, remainingSeconds(until.Sub(now)), nil
}

func (t *memoryTracker) Reset(_ context.Context, account string) error {
	t.mutex.Lock()
	delete(t.attempts, account)
	delete(t.lockouts, account)
	t.mutex.Unlock()
	return nil
}

func (t *memoryTracker) Remaining(_ context.Context, account string) (int, error) {
	now := t.now()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	recent := t.prune(account, now)
	left := t.cfg.MaxAttempts - len(recent)
	if left < 0 {
		left = 0
	}
	return left, nil
}

func (t *memoryTracker) CleanupExpired(_ context.Context) error {
	now := t.now()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	for account, until := range t.lockouts {
		if !now.Before(until) {
			delete(t.lockouts, account)
		}
	}
	for account := range t.attempts {
		t.prune(account, now)
	}
	return nil
}

func (t *memoryTracker) Close(context.Context) error {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	return nil
}
