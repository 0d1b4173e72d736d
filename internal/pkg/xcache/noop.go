package xcache

import (
	"context"
	"errors"

	"github.com/eko/gocache/lib/v4/store"
)

// ErrCacheNotConfigured is the cause of every miss when caching is disabled.
var ErrCacheNotConfigured = errors.New("cache not configured")

var errDisabledMiss = store.NotFoundWithCause(ErrCacheNotConfigured)

// NewNoop returns a Cache that keeps nothing, used when cache.mode is empty.
// Writes succeed so callers need no mode checks.
func NewNoop[T any]() Cache[T] {
	return disabled[T]{}
}

type disabled[T any] struct{}

func (disabled[T]) Get(context.Context, any) (T, error) {
	var zero T
	return zero, errDisabledMiss
}

func (disabled[T]) Set(context.Context, any, T, ...Option) error { return nil }

func (disabled[T]) Delete(context.Context, any) error { return nil }

func (disabled[T]) Invalidate(context.Context, ...store.InvalidateOption) error { return nil }

func (disabled[T]) Clear(context.Context) error { return nil }

func (disabled[T]) GetType() string { return "noop" }
