package xcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/store"

	cachelib "github.com/eko/gocache/lib/v4/cache"
	gocache_store "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
	redis "github.com/redis/go-redis/v9"

	"github.com/arenax/arenax/internal/log"
	redis_store "github.com/arenax/arenax/internal/pkg/xcache/redis"
	"github.com/arenax/arenax/internal/pkg/xredis"
)

// Cache is an alias to the gocache CacheInterface:
//   - Get(ctx, key) (T, error)
//   - Set(ctx, key, value, options ...Option) error
//   - Delete(ctx, key) error
//   - Invalidate(ctx, options ...store.InvalidateOption) error
//   - Clear(ctx) error
//   - GetType() string
//
// See: github.com/eko/gocache/lib/v4/cache
type Cache[T any] = cachelib.CacheInterface[T]

type SetterCache[T any] = cachelib.SetterCacheInterface[T]

// NewMemory creates an in-memory cache backed by patrickmn/go-cache.
func NewMemory[T any](client *gocache.Cache, options ...Option) SetterCache[T] {
	return cachelib.New[T](gocache_store.NewGoCache(client, options...))
}

// NewMemoryWithOptions builds the go-cache client with the given default
// expiration and cleanup interval.
func NewMemoryWithOptions[T any](defaultExpiration, cleanupInterval time.Duration, options ...Option) SetterCache[T] {
	return NewMemory[T](gocache.New(defaultExpiration, cleanupInterval), options...)
}

// NewRedis creates a redis cache. Values are stored as JSON under prefix+key.
func NewRedis[T any](client *redis.Client, prefix string, options ...Option) SetterCache[T] {
	return cachelib.New[T](redis_store.NewRedisStore[T](client, prefix, options...))
}

// NewTwoLevel chains memory in front of redis.
func NewTwoLevel[T any](memory SetterCache[T], redis SetterCache[T]) Cache[T] {
	return cachelib.NewChain[T](memory, redis)
}

// NewFromConfig builds a typed cache from cfg. The prefix namespaces redis
// keys, so several typed caches can share one redis database.
//
// An empty mode returns a noop cache.
func NewFromConfig[T any](ctx context.Context, cfg Config, prefix string) (Cache[T], error) {
	if cfg.Mode == "" {
		log.Info(ctx, "cache disabled", log.String("prefix", prefix))
		return NewNoop[T](), nil
	}

	memExpiration := defaultIfZero(cfg.Memory.Expiration, 5*time.Minute)
	memCleanup := defaultIfZero(cfg.Memory.CleanupInterval, 10*time.Minute)
	mem := NewMemoryWithOptions[T](memExpiration, memCleanup, store.WithExpiration(memExpiration))

	switch cfg.Mode {
	case ModeMemory:
		log.Info(ctx, "using memory cache", log.String("prefix", prefix))
		return mem, nil
	case ModeRedis, ModeTwoLevel:
	default:
		return nil, fmt.Errorf("unsupported cache mode: %s", cfg.Mode)
	}

	if !cfg.Redis.Configured() {
		if cfg.Mode == ModeTwoLevel {
			log.Warn(ctx, "two-level cache without redis, falling back to memory", log.String("prefix", prefix))
			return mem, nil
		}

		return nil, errors.New("redis cache requires redis addr or url")
	}

	client, err := xredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	rds := NewRedis[T](client, prefix, store.WithExpiration(defaultIfZero(cfg.Redis.Expiration, 30*time.Minute)))

	if cfg.Mode == ModeRedis {
		log.Info(ctx, "using redis cache", log.String("prefix", prefix))
		return rds, nil
	}

	log.Info(ctx, "using two-level cache", log.String("prefix", prefix))

	return NewTwoLevel[T](mem, rds), nil
}

func defaultIfZero(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}

	return d
}
