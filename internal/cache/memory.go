package cache

import (
	"context"
	"sync"
	"time"

	"recruit-scoring/internal/scoring"
)

// MemoryCache keeps the configuration in process.
type MemoryCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	value    *scoring.ScoringConfig
	storedAt time.Time
	gen      int64
}

type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

func NewMemoryCache(ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &MemoryCache{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context) (*scoring.ScoringConfig, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return nil, false, nil
	}
	cp := *c.value
	return &cp, true, nil
}

func (c *MemoryCache) Generation(_ context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, nil
}

func (c *MemoryCache) Fill(_ context.Context, cfg scoring.ScoringConfig, gen int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false, nil
	}
	c.value = &cfg
	c.storedAt = c.now()
	return true, nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = nil
	c.gen++
	return nil
}
