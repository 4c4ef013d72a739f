package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store caches encoded query responses. Misses and backend failures both read as not found.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	// Clear drops every key under prefix.
	Clear(ctx context.Context, prefix string) error
}

const DefaultMaxEntries = 1024

// Cache is the in-process Store. Every filter combination is its own key, so
// the map is capped; when full, expired entries go first, then the one closest to expiry.
type Cache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	m          map[string]entry
	now        func() time.Time
}

type entry struct {
	val []byte
	exp time.Time
}

type Option func(*Cache)

func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	c := &Cache{
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		m:          make(map[string]entry),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.exp) {
		return nil, false
	}
	return e.val, true
}

func (c *Cache) Set(_ context.Context, key string, val []byte) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.m[key]; !exists && len(c.m) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.m[key] = entry{val: val, exp: now.Add(c.ttl)}
}

func (c *Cache) evictLocked(now time.Time) {
	var (
		victim  string
		soonest time.Time
	)
	for k, e := range c.m {
		if now.After(e.exp) {
			delete(c.m, k)
			continue
		}
		if victim == "" || e.exp.Before(soonest) {
			victim, soonest = k, e.exp
		}
	}
	if len(c.m) >= c.maxEntries && victim != "" {
		delete(c.m, victim)
	}
}

func (c *Cache) Clear(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix == "" {
		clear(c.m)
		return nil
	}
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
	return nil
}

// Len counts stored entries, expired ones included until the next eviction.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
