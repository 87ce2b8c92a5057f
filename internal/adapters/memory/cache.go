package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCacheMiss is returned by Cache.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

type cacheEntry struct {
	value   []byte
	expires time.Time
}

const (
	// DefaultMaxEntries bounds a Cache built by NewCache.
	DefaultMaxEntries = 10000
	sweepInterval     = time.Minute
)

// Cache is a process-local TTL cache used when Valkey is not configured.
// Set sweeps expired entries at most once per sweepInterval, or immediately
// when the cache is full; a full cache then evicts the entry closest to expiry.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	maxEntries int
	lastSweep  time.Time
	now        func() time.Time
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry), maxEntries: DefaultMaxEntries, now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.entries[key]
	full := !exists && len(c.entries) >= c.maxEntries
	if full || c.now().Sub(c.lastSweep) >= sweepInterval {
		c.sweep()
	}
	if !exists && len(c.entries) >= c.maxEntries {
		c.evictSoonest()
	}
	c.entries[key] = cacheEntry{
		value:   append([]byte(nil), value...),
		expires: c.now().Add(time.Duration(ttlSeconds) * time.Second),
	}
	return nil
}

// sweep drops expired entries. Callers hold the lock.
func (c *Cache) sweep() {
	now := c.now()
	c.lastSweep = now
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
}

// evictSoonest drops the entry that would expire first. Callers hold the lock.
func (c *Cache) evictSoonest() {
	var (
		victim string
		first  time.Time
		found  bool
	)
	for k, e := range c.entries {
		if !found || e.expires.Before(first) {
			victim, first, found = k, e.expires, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Revocations remembers logged-out session ids until they expire.
type Revocations struct {
	mu    sync.Mutex
	until map[string]time.Time
	now   func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{until: make(map[string]time.Time), now: time.Now}
}

func (r *Revocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.until[tokenID] = until
	r.sweep()
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.until[tokenID]
	if !ok {
		return false, nil
	}
	if !r.now().Before(until) {
		delete(r.until, tokenID)
		return false, nil
	}
	return true, nil
}

// sweep drops expired entries. Callers hold the lock.
func (r *Revocations) sweep() {
	now := r.now()
	for id, until := range r.until {
		if !now.Before(until) {
			delete(r.until, id)
		}
	}
}
