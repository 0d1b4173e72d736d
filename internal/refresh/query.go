package refresh

import (
	"context"
	"fmt"
	"sync"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/pkg/querycache"
)

// Fetcher loads the value bound to a Query.
type Fetcher[T any] func(ctx context.Context) (T, error)

// QueryOptions configures a Query. The embedded query options are handed to
// the query client unchanged.
type QueryOptions struct {
	WatchKeys []string

	querycache.QueryOptions
}

// QueryResult is the typed view of a query client entry.
type QueryResult[T any] struct {
	Data       T
	Err        error
	HasData    bool
	IsFetching bool
	IsStale    bool
}

// Query binds a query client entry to the bus. While mounted, every
// qualifying change notification invalidates the entry, and so does every
// focus event.
type Query[T any] struct {
	client *querycache.Client
	bus    eventbus.Source
	env    eventbus.Source
	name   string
	fetch  Fetcher[T]
	qopts  querycache.QueryOptions

	mu       sync.Mutex
	state    state
	key      CacheKey
	watch    WatchList
	binding  uint64
	observer *querycache.Observer
}

// NewQuery creates an unmounted binding of key to fetch.
func NewQuery[T any](client *querycache.Client, bus eventbus.Source, key CacheKey, fetch Fetcher[T], opts QueryOptions, options ...Option) *Query[T] {
	o := applyOptions(bus, options)

	name := o.name
	if name == "" {
		name = key.String()
	}

	watch := NewWatchList(opts.WatchKeys...)

	return &Query[T]{
		client:  client,
		bus:     bus,
		env:     o.env,
		name:    name,
		fetch:   fetch,
		qopts:   opts.QueryOptions,
		key:     key,
		watch:   watch,
		binding: bindingFingerprint(key, watch),
	}
}

// Mount registers the fetch function and subscribes to the bus. It has no
// effect on a mounted or unmounted binding.
func (q *Query[T]) Mount(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != stateNew {
		return
	}

	q.subscribeLocked()
	q.state = stateMounted

	log.Debug(ctx, "query binding mounted",
		log.String("name", q.name),
		log.String("key", q.key.String()),
		log.Strings("watch", q.watch.Keys()))
}

// Unmount removes every subscription. Later events have no effect.
func (q *Query[T]) Unmount(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != stateMounted {
		q.state = stateUnmounted
		return
	}

	q.unsubscribeLocked()
	q.state = stateUnmounted

	log.Debug(ctx, "query binding unmounted", log.String("name", q.name))
}

// Mounted reports whether the binding is live.
func (q *Query[T]) Mounted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.state == stateMounted
}

// Key returns the current cache key.
func (q *Query[T]) Key() CacheKey {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.key
}

// Update rebinds the query when the key or the watch list changed by content.
// The old subscription is removed before the new one is made.
func (q *Query[T]) Update(ctx context.Context, key CacheKey, watchKeys []string) bool {
	watch := NewWatchList(watchKeys...)
	binding := bindingFingerprint(key, watch)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.binding == binding {
		return false
	}

	mounted := q.state == stateMounted
	if mounted {
		q.unsubscribeLocked()
	}

	q.key = key
	q.watch = watch
	q.binding = binding

	if mounted {
		q.subscribeLocked()
	}

	log.Debug(ctx, "query binding updated",
		log.String("name", q.name),
		log.String("key", key.String()),
		log.Strings("watch", watch.Keys()))

	return true
}

// Get returns the bound value, fetching it when the entry is not fresh.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	var zero T

	q.mu.Lock()
	observer := q.observer
	key := q.key
	q.mu.Unlock()

	var (
		v   any
		err error
	)

	if observer != nil {
		v, err = observer.Fetch(ctx)
	} else {
		v, err = q.client.Fetch(ctx, key.String(), q.fetchAny, q.qopts)
	}

	if err != nil {
		return zero, err
	}

	return castValue[T](v)
}

// Result returns the entry snapshot without fetching.
func (q *Query[T]) Result() QueryResult[T] {
	q.mu.Lock()
	key := q.key
	q.mu.Unlock()

	res, ok := q.client.Result(key.String())
	if !ok {
		return QueryResult[T]{IsStale: true}
	}

	out := QueryResult[T]{
		Err:        res.Err,
		HasData:    res.HasValue,
		IsFetching: res.Fetching,
		IsStale:    res.Stale,
	}

	if res.HasValue {
		if v, err := castValue[T](res.Value); err == nil {
			out.Data = v
		}
	}

	return out
}

// HandleEvent implements eventbus.Handler.
func (q *Query[T]) HandleEvent(ctx context.Context, event eventbus.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != stateMounted {
		return
	}

	switch event.Topic {
	case eventbus.TopicDataChanged, eventbus.TopicStorage:
		if !ShouldRefresh(q.watch.Keys(), event) {
			return
		}
	case eventbus.TopicFocus:
	default:
		return
	}

	log.Debug(ctx, "query binding invalidating",
		log.String("name", q.name),
		log.String("topic", event.Topic),
		log.String("key", event.KeyOrEmpty()))

	q.client.Invalidate(q.key.String())
}

func (q *Query[T]) fetchAny(ctx context.Context) (any, error) {
	return q.fetch(ctx)
}

func (q *Query[T]) subscribeLocked() {
	q.observer = q.client.Observe(q.key.String(), q.fetchAny, q.qopts, nil)

	q.bus.Subscribe(eventbus.TopicDataChanged, q)
	q.bus.Subscribe(eventbus.TopicStorage, q)
	q.env.Subscribe(eventbus.TopicFocus, q)
}

func (q *Query[T]) unsubscribeLocked() {
	q.bus.Unsubscribe(eventbus.TopicDataChanged, q)
	q.bus.Unsubscribe(eventbus.TopicStorage, q)
	q.env.Unsubscribe(eventbus.TopicFocus, q)

	if q.observer != nil {
		q.observer.Close()
		q.observer = nil
	}
}

func castValue[T any](v any) (T, error) {
	if v == nil {
		var zero T
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("refresh: cached value is %T, not %T", v, zero)
	}

	return t, nil
}
