// Package refresh binds consumers to change notifications on an event bus.
//
// A Query keeps a query cache entry in sync with the notifications it
// watches. A Ticker owns no data and only counts qualifying events, so the
// consumer can re-run its own fetch.
package refresh

import (
	"github.com/samber/lo"

	"github.com/arenax/arenax/internal/eventbus"
)

// BroadcastKey is the key of a notification every subscriber must act on,
// whatever it watches.
const BroadcastKey = "remote_sync"

// ShouldRefresh reports whether a subscriber watching keys must refresh for
// the notification n. An empty watch list matches everything; so does a
// notification without a key or with BroadcastKey.
func ShouldRefresh(keys []string, n eventbus.Event) bool {
	if len(keys) == 0 || !n.HasKey() {
		return true
	}

	key := *n.Key
	if key == BroadcastKey {
		return true
	}

	return lo.Contains(keys, key)
}
