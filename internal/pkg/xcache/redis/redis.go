package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lib_store "github.com/eko/gocache/lib/v4/store"
	redis "github.com/redis/go-redis/v9"
)

// ClientInterface is the subset of *redis.Client the store needs.
type ClientInterface interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Set(ctx context.Context, key string, values any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
}

const (
	// RedisType is returned by GetType.
	RedisType = "redis"

	tagKeyPattern = "%stag:%s"
	indexKey      = "%s__keys"
	defaultTagTTL = 720 * time.Hour
)

// RedisStore is a gocache store that keeps JSON encoded T values under a key
// prefix. Clear and Invalidate only touch keys written through this store.
type RedisStore[T any] struct {
	client  ClientInterface
	prefix  string
	options *lib_store.Options
}

func NewRedisStore[T any](client ClientInterface, prefix string, options ...lib_store.Option) *RedisStore[T] {
	return &RedisStore[T]{
		client:  client,
		prefix:  prefix,
		options: lib_store.ApplyOptions(options...),
	}
}

func (s *RedisStore[T]) key(key any) (string, error) {
	k, ok := key.(string)
	if !ok {
		return "", fmt.Errorf("expected string key, got %T", key)
	}

	return s.prefix + k, nil
}

func (s *RedisStore[T]) Get(ctx context.Context, key any) (any, error) {
	v, _, err := s.get(ctx, key, false)
	return v, err
}

func (s *RedisStore[T]) GetWithTTL(ctx context.Context, key any) (any, time.Duration, error) {
	return s.get(ctx, key, true)
}

func (s *RedisStore[T]) get(ctx context.Context, key any, withTTL bool) (T, time.Duration, error) {
	var result T

	k, err := s.key(key)
	if err != nil {
		return result, 0, lib_store.NotFoundWithCause(err)
	}

	raw, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		return result, 0, lib_store.NotFoundWithCause(err)
	}

	if err != nil {
		return result, 0, err
	}

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		var zero T
		return zero, 0, err
	}

	if !withTTL {
		return result, 0, nil
	}

	ttl, err := s.client.TTL(ctx, k).Result()
	if err != nil {
		var zero T
		return zero, 0, err
	}

	return result, ttl, nil
}

func (s *RedisStore[T]) Set(ctx context.Context, key any, value any, options ...lib_store.Option) error {
	opts := lib_store.ApplyOptionsWithDefault(s.options, options...)

	k, err := s.key(key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, k, string(raw), opts.Expiration).Err(); err != nil {
		return err
	}

	s.client.SAdd(ctx, fmt.Sprintf(indexKey, s.prefix), k)

	ttl := opts.TagsTTL
	if ttl == 0 {
		ttl = defaultTagTTL
	}

	for _, tag := range opts.Tags {
		tagKey := fmt.Sprintf(tagKeyPattern, s.prefix, tag)
		s.client.SAdd(ctx, tagKey, k)
		s.client.Expire(ctx, tagKey, ttl)
	}

	return nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, key any) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}

	return s.client.Del(ctx, k).Err()
}

func (s *RedisStore[T]) GetType() string {
	return RedisType
}

// Clear removes every key written through this store.
func (s *RedisStore[T]) Clear(ctx context.Context) error {
	return s.deleteMembers(ctx, fmt.Sprintf(indexKey, s.prefix))
}

// Invalidate removes the keys stored with the given tags.
func (s *RedisStore[T]) Invalidate(ctx context.Context, options ...lib_store.InvalidateOption) error {
	opts := lib_store.ApplyInvalidateOptions(options...)

	for _, tag := range opts.Tags {
		if err := s.deleteMembers(ctx, fmt.Sprintf(tagKeyPattern, s.prefix, tag)); err != nil {
			return err
		}
	}

	return nil
}

func (s *RedisStore[T]) deleteMembers(ctx context.Context, setKey string) error {
	members, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	keys := append(members, setKey)

	return s.client.Del(ctx, keys...).Err()
}
