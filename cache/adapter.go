package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dndoverworld/server/cache/local"
	cacheredis "github.com/dndoverworld/server/cache/redis"
)

// Cache is the key/value surface the store uses for catalog lookups.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// Config selects and tunes the cache backend.
type Config struct {
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LocalGCInterval time.Duration
}

// New returns a Cache backed by Redis if RedisAddr is set,
// otherwise an in-process LocalCache.
func New(cfg Config) (Cache, error) {
	if cfg.RedisAddr != "" {
		return cacheredis.NewCache(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return local.NewCache(local.Config{
		GCInterval: cfg.LocalGCInterval,
	})
}

// IsNotFound reports whether err is a miss from either backend.
func IsNotFound(err error) bool {
	return errors.Is(err, local.ErrNotFound) || errors.Is(err, cacheredis.ErrNotFound)
}
