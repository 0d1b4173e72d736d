package xcache

import (
	"time"

	"github.com/eko/gocache/lib/v4/store"
)

type Option = store.Option

func WithExpiration(expiration time.Duration) Option {
	return store.WithExpiration(expiration)
}

func WithTags(tags ...string) Option {
	return store.WithTags(tags)
}

// InvalidateTags builds the option that drops every value stored with one of tags.
func InvalidateTags(tags ...string) store.InvalidateOption {
	return store.WithInvalidateTags(tags)
}
