package local

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type entry struct {
	data     string
	expireAt time.Time // zero = never
}

func (e *entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// LocalCache is an in-process string cache with per-key TTL.
type LocalCache struct {
	kv       sync.Map // key → *entry
	stopGC   chan struct{}
	stopOnce sync.Once
}

// NewCache creates a LocalCache and starts the background sweeper.
func NewCache(cfg Config) (*LocalCache, error) {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &LocalCache{stopGC: make(chan struct{})}
	go c.sweep(interval)
	return c, nil
}

// Close stops the sweeper. It is safe to call more than once.
func (c *LocalCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopGC) })
	return nil
}

func (c *LocalCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			c.kv.Range(func(k, v any) bool {
				if v.(*entry).expired(now) {
					c.kv.Delete(k)
				}
				return true
			})
		case <-c.stopGC:
			return
		}
	}
}

func (c *LocalCache) load(key string) (*entry, bool) {
	v, ok := c.kv.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(*entry)
	if e.expired(time.Now()) {
		c.kv.CompareAndDelete(key, v)
		return nil, false
	}
	return e, true
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	e, ok := c.load(key)
	if !ok {
		return "", ErrNotFound
	}
	return e.data, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := &entry{data: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	c.kv.Store(key, e)
	return nil
}

func (c *LocalCache) SetNX(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	e := &entry{data: value}
	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}
	for {
		old, loaded := c.kv.LoadOrStore(key, e)
		if !loaded {
			return true, nil
		}
		if !old.(*entry).expired(time.Now()) {
			return false, nil
		}
		// Expired but not yet swept: take its place unless someone beat us.
		if c.kv.CompareAndSwap(key, old, e) {
			return true, nil
		}
	}
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.kv.Delete(k)
	}
	return nil
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.load(key)
	return ok, nil
}
