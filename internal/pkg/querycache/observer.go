package querycache

import (
	"context"
	"sync"

	"github.com/arenax/arenax/internal/log"
)

// Observer keeps an entry alive for background refetching until closed.
type Observer struct {
	c        *Client
	e        *entry
	listener Listener

	closeOnce sync.Once
}

// Observe registers fn under key and returns a handle that keeps the entry
// observed. listener, if not nil, is called after every fetch of the entry.
func (c *Client) Observe(key string, fn FetchFunc, opts QueryOptions, listener Listener) *Observer {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookup(key, fn, &opts)
	o := &Observer{c: c, e: e, listener: listener}
	e.observers[o] = struct{}{}
	c.observed[key] = e

	return o
}

// Key returns the observed key.
func (o *Observer) Key() string {
	return o.e.key
}

// Fetch returns the entry value, loading it when not fresh.
func (o *Observer) Fetch(ctx context.Context) (any, error) {
	o.c.mu.Lock()
	o.c.attach(o.e)
	o.c.mu.Unlock()

	return o.c.fetchEntry(ctx, o.e)
}

// Result returns a snapshot of the observed entry.
func (o *Observer) Result() Result {
	o.c.mu.Lock()
	defer o.c.mu.Unlock()

	return o.e.result()
}

// Close stops observing. Calling it more than once is a no-op.
func (o *Observer) Close() {
	o.closeOnce.Do(func() {
		o.c.mu.Lock()
		delete(o.e.observers, o)

		if len(o.e.observers) == 0 {
			delete(o.c.pending, o.e.key)

			if o.c.observed[o.e.key] == o.e {
				delete(o.c.observed, o.e.key)
			}
		}
		o.c.mu.Unlock()
	})
}

// Observers returns the number of open observers for key.
func (c *Client) Observers(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.find(key)
	if !ok {
		return 0
	}

	return len(e.observers)
}

// listeners snapshots the observer callbacks. Caller holds c.mu.
func (e *entry) listeners() []Listener {
	var ls []Listener

	for o := range e.observers {
		if o.listener != nil {
			ls = append(ls, o.listener)
		}
	}

	return ls
}

func (c *Client) notify(ctx context.Context, key string, res Result, listeners []Listener) {
	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error(ctx, "query listener panicked", log.String("key", key), log.Any("panic", r))
				}
			}()

			l(key, res)
		}()
	}
}
