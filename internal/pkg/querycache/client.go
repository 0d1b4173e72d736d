// Package querycache provides a keyed async memoizer. Entries remember their
// fetch function, are flagged stale on invalidation and are refetched in the
// background while observed.
package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/arenax/arenax/internal/log"
)

// ErrNoFetcher is returned when an entry is loaded before a fetch function
// was registered for its key.
var ErrNoFetcher = errors.New("querycache: no fetch function registered")

// FetchFunc loads the value of an entry.
type FetchFunc func(ctx context.Context) (any, error)

// Listener is notified after every fetch of an observed entry.
type Listener func(key string, result Result)

type entry struct {
	key  string
	fn   FetchFunc
	opts QueryOptions

	value     any
	err       error
	hasValue  bool
	stale     bool
	fetching  int
	fetchedAt time.Time

	// gen is bumped on every invalidation so a fetch that started before an
	// invalidation leaves the entry stale.
	gen uint64

	observers map[*Observer]struct{}
}

func (e *entry) fresh() bool {
	if !e.hasValue || e.stale {
		return false
	}

	if e.opts.StaleTime > 0 && time.Since(e.fetchedAt) >= e.opts.StaleTime {
		return false
	}

	return true
}

func (e *entry) result() Result {
	return Result{
		Value:     e.value,
		Err:       e.err,
		HasValue:  e.hasValue,
		Fetching:  e.fetching > 0,
		Stale:     !e.fresh(),
		FetchedAt: e.fetchedAt,
	}
}

// Client holds query entries. It is safe for concurrent use.
type Client struct {
	opts Options

	mu      sync.Mutex
	entries *lru.Cache[string, *entry]
	pending map[string]*entry

	// observed holds every entry with open observers, evicted or not.
	observed map[string]*entry

	sf singleflight.Group

	reloadCh chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a client and starts its background refetch worker.
func New(opts Options) *Client {
	opts = opts.withDefaults()

	c := &Client{
		opts:     opts,
		pending:  make(map[string]*entry),
		observed: make(map[string]*entry),
		reloadCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
		sleep:    sleepContext,
	}

	entries, err := lru.NewWithEvict[string, *entry](opts.Size, c.onEvict)
	if err != nil {
		// Only returned for a non-positive size, which withDefaults rules out.
		panic(err)
	}

	c.entries = entries

	go c.worker()

	log.Debug(context.Background(), "query client started",
		log.String("name", opts.Name),
		log.Int("size", opts.Size),
		log.Duration("debounce", opts.DebounceDelay))

	return c
}

func (c *Client) onEvict(key string, e *entry) {
	log.Debug(context.Background(), "query entry evicted",
		log.String("name", c.opts.Name),
		log.String("key", key),
		log.Int("observers", len(e.observers)))
}

// find returns the entry for key from the cache or, once evicted, from the
// observed set. Caller holds c.mu.
func (c *Client) find(key string) (*entry, bool) {
	if e, ok := c.entries.Peek(key); ok {
		return e, true
	}

	e, ok := c.observed[key]

	return e, ok
}

// lookup returns the entry for key, creating it when missing. A non-nil fn
// replaces the registered fetch function. Caller holds c.mu.
func (c *Client) lookup(key string, fn FetchFunc, opts *QueryOptions) *entry {
	e, ok := c.entries.Get(key)
	if !ok {
		e, ok = c.observed[key]
		if !ok {
			e = &entry{key: key, observers: make(map[*Observer]struct{})}
		}

		c.entries.Add(key, e)
	}

	if fn != nil {
		e.fn = fn
	}

	if opts != nil {
		e.opts = *opts
	}

	return e
}

// attach puts an observed entry back after it was evicted. Caller holds c.mu.
func (c *Client) attach(e *entry) {
	if cur, ok := c.entries.Peek(e.key); ok && cur == e {
		return
	}

	c.entries.Add(e.key, e)
}

// Fetch returns the value for key, calling fn when the entry has no fresh
// value. Concurrent calls for one key share a single fetch.
func (c *Client) Fetch(ctx context.Context, key string, fn FetchFunc, opts ...QueryOptions) (any, error) {
	c.mu.Lock()

	var qo *QueryOptions
	if len(opts) > 0 {
		qo = &opts[0]
	}

	e := c.lookup(key, fn, qo)
	c.mu.Unlock()

	return c.fetchEntry(ctx, e)
}

func (c *Client) fetchEntry(ctx context.Context, e *entry) (any, error) {
	c.mu.Lock()
	if e.fresh() {
		v := e.value
		c.mu.Unlock()

		return v, nil
	}
	c.mu.Unlock()

	v, err, shared := c.sf.Do(e.key, func() (any, error) {
		return c.load(ctx, e)
	})

	if shared {
		log.Debug(ctx, "query fetch deduplicated via singleflight", log.String("name", c.opts.Name), log.String("key", e.key))
	}

	return v, err
}

func (c *Client) load(ctx context.Context, e *entry) (any, error) {
	c.mu.Lock()
	fn := e.fn
	gen := e.gen

	retry := c.opts.Retry
	if e.opts.Retry > 0 {
		retry = e.opts.Retry
	}

	if fn == nil {
		c.mu.Unlock()
		return nil, ErrNoFetcher
	}

	e.fetching++
	c.mu.Unlock()

	v, err := c.callWithRetry(ctx, e.key, fn, retry)

	c.mu.Lock()
	e.fetching--

	if err != nil {
		e.err = err
	} else {
		e.value = v
		e.err = nil
		e.hasValue = true
		e.fetchedAt = time.Now()
		e.stale = e.gen != gen
	}

	again := err == nil && e.gen != gen && len(e.observers) > 0
	if again {
		c.pending[e.key] = e
	}

	res := e.result()
	listeners := e.listeners()
	c.mu.Unlock()

	if again {
		c.trigger()
	}

	c.notify(ctx, e.key, res, listeners)

	if err != nil {
		log.Warn(ctx, "query fetch failed", log.String("name", c.opts.Name), log.String("key", e.key), log.Cause(err))
		return nil, err
	}

	return v, nil
}

func (c *Client) callWithRetry(ctx context.Context, key string, fn FetchFunc, retry int) (any, error) {
	var lastErr error

	for attempt := 0; attempt <= retry; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.opts.RetryDelay); err != nil {
				return nil, lastErr
			}

			log.Debug(ctx, "query fetch retrying", log.String("key", key), log.Int("attempt", attempt))
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}

		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// Invalidate marks key stale. Observed entries are refetched in the
// background; unobserved ones on the next Fetch.
func (c *Client) Invalidate(key string) {
	c.mu.Lock()

	e, ok := c.find(key)
	if !ok {
		c.mu.Unlock()
		return
	}

	c.invalidateLocked(e)
	schedule := len(e.observers) > 0

	c.mu.Unlock()

	if schedule {
		c.trigger()
	}
}

func (c *Client) invalidateLocked(e *entry) {
	e.stale = true
	e.gen++

	if len(e.observers) > 0 {
		c.pending[e.key] = e
	}
}

// SetQueryData stores value for key as freshly fetched.
func (c *Client) SetQueryData(ctx context.Context, key string, value any) {
	c.mu.Lock()
	e := c.lookup(key, nil, nil)
	e.value = value
	e.err = nil
	e.hasValue = true
	e.stale = false
	e.fetchedAt = time.Now()
	delete(c.pending, key)

	res := e.result()
	listeners := e.listeners()
	c.mu.Unlock()

	c.notify(ctx, key, res, listeners)
}

// GetQueryData returns the cached value for key, fresh or not.
func (c *Client) GetQueryData(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.find(key)
	if !ok || !e.hasValue {
		return nil, false
	}

	return e.value, true
}

// Result returns a snapshot of the entry for key.
func (c *Client) Result(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.find(key)
	if !ok {
		return Result{}, false
	}

	return e.result(), true
}

// Remove drops the entry for key. An observed entry stays reachable until
// its last observer closes.
func (c *Client) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Remove(key)
	delete(c.pending, key)
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	return c.entries.Len()
}

// Focus invalidates every observed entry that opted into RefetchOnFocus.
func (c *Client) Focus() {
	c.invalidateWhere(func(o QueryOptions) bool { return o.RefetchOnFocus })
}

// Reconnect invalidates every observed entry that opted into RefetchOnReconnect.
func (c *Client) Reconnect() {
	c.invalidateWhere(func(o QueryOptions) bool { return o.RefetchOnReconnect })
}

func (c *Client) invalidateWhere(match func(QueryOptions) bool) {
	c.mu.Lock()

	var n int

	for _, e := range c.observed {
		if !match(e.opts) {
			continue
		}

		c.invalidateLocked(e)
		n++
	}

	c.mu.Unlock()

	if n > 0 {
		c.trigger()
	}
}

func (c *Client) trigger() {
	select {
	case c.reloadCh <- struct{}{}:
	default:
	}
}

// Stop stops the background worker and waits for it to exit.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		log.Info(context.Background(), "query client stopping", log.String("name", c.opts.Name))
		close(c.stopCh)
	})

	<-c.done
}

func (c *Client) worker() {
	defer close(c.done)

	var (
		debounceTimer *time.Timer
		debounceCh    <-chan time.Time
	)

	for {
		select {
		case <-c.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			return

		case <-c.reloadCh:
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(c.opts.DebounceDelay)
				debounceCh = debounceTimer.C
			} else {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}

				debounceTimer.Reset(c.opts.DebounceDelay)
			}

		case <-debounceCh:
			c.refetchPending()
		}
	}
}

func (c *Client) refetchPending() {
	c.mu.Lock()
	batch := make([]*entry, 0, len(c.pending))

	for key, e := range c.pending {
		delete(c.pending, key)

		if len(e.observers) == 0 {
			continue
		}

		c.attach(e)
		batch = append(batch, e)
	}
	c.mu.Unlock()

	for _, e := range batch {
		c.refetch(e)
	}
}

func (c *Client) refetch(e *entry) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(context.Background(), "query refetch panicked",
				log.String("name", c.opts.Name),
				log.String("key", e.key),
				log.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.FetchTimeout)
	defer cancel()

	_, _ = c.fetchEntry(ctx, e)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
