package refresh

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/pkg/querycache"
)

func newQueryClient(t *testing.T) *querycache.Client {
	t.Helper()

	c := querycache.New(querycache.Options{Name: "test", DebounceDelay: 5 * time.Millisecond})
	t.Cleanup(c.Stop)

	return c
}

func countingFetcher(calls *int32) Fetcher[int] {
	return func(ctx context.Context) (int, error) {
		return int(atomic.AddInt32(calls, 1)), nil
	}
}

func TestQuery_InvalidatesOnWatchedKey(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)
	bus := eventbus.New("test")

	var calls int32

	q := NewQuery(client, bus, Key("standings"), countingFetcher(&calls), QueryOptions{WatchKeys: []string{"standings"}})
	q.Mount(ctx)
	defer q.Unmount(ctx)

	v, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	bus.Publish(ctx, eventbus.Changed("announcements"))

	v, err = q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "unwatched key leaves the entry fresh")

	bus.Publish(ctx, eventbus.Changed("standings"))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		res := q.Result()
		return res.HasData && !res.IsStale && res.Data == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQuery_InvalidatesAfterEviction(t *testing.T) {
	ctx := context.Background()
	client := querycache.New(querycache.Options{Name: "test", Size: 1, DebounceDelay: 5 * time.Millisecond})
	t.Cleanup(client.Stop)

	bus := eventbus.New("test")

	var calls int32

	q := NewQuery(client, bus, Key("standings"), countingFetcher(&calls), QueryOptions{WatchKeys: []string{"standings"}})
	q.Mount(ctx)
	defer q.Unmount(ctx)

	v, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = client.Fetch(ctx, "other", func(context.Context) (any, error) { return "x", nil })
	require.NoError(t, err)

	bus.Publish(ctx, eventbus.Changed("standings"))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		v, err := q.Get(ctx)
		return err == nil && v == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQuery_EmptyWatchListMatchesEverything(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)
	bus := eventbus.New("test")

	var calls int32

	q := NewQuery(client, bus, Key("teams"), countingFetcher(&calls), QueryOptions{})
	q.Mount(ctx)
	defer q.Unmount(ctx)

	_, err := q.Get(ctx)
	require.NoError(t, err)

	bus.Publish(ctx, eventbus.Changed("payments"))

	assert.True(t, q.Result().IsStale || atomic.LoadInt32(&calls) == 2)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQuery_StorageAndBroadcast(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)
	bus := eventbus.New("test")

	var calls int32

	q := NewQuery(client, bus, Key("standings"), countingFetcher(&calls), QueryOptions{WatchKeys: []string{"standings"}})
	q.Mount(ctx)
	defer q.Unmount(ctx)

	_, err := q.Get(ctx)
	require.NoError(t, err)

	key := BroadcastKey
	bus.Publish(ctx, eventbus.Event{Topic: eventbus.TopicStorage, Key: &key, Origin: "other"})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQuery_FocusAlwaysInvalidates(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)
	bus := eventbus.New("test")

	var calls int32

	q := NewQuery(client, bus, Key("standings"), countingFetcher(&calls), QueryOptions{WatchKeys: []string{"nothing-publishes-this"}})
	q.Mount(ctx)
	defer q.Unmount(ctx)

	_, err := q.Get(ctx)
	require.NoError(t, err)

	bus.Publish(ctx, eventbus.Focus())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestQuery_EnvSource(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)
	bus := eventbus.New("shared")
	env := eventbus.New("session")

	var calls int32

	q := NewQuery(client, bus, Key("standings"), countingFetcher(&calls), QueryOptions{}, WithEnv(env))
	q.Mount(ctx)

	assert.Equal(t, 0, bus.SubscriberCount(eventbus.TopicFocus))
	assert.Equal(t, 1, env.SubscriberCount(eventbus.TopicFocus))

	_, err := q.Get(ctx)
	require.NoError(t, err)

	env.Publish(ctx, eventbus.Focus())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, time.Second, 5*time.Millisecond)

	q.Unmount(ctx)
	assert.Equal(t, 0, env.SubscriberCount(eventbus.TopicFocus))
}

func TestQuery_NoInvalidationAfterUnmount(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)
	bus := eventbus.New("test")

	var calls int32

	q := NewQuery(client, bus, Key("standings"), countingFetcher(&calls), QueryOptions{})
	q.Mount(ctx)

	_, err := q.Get(ctx)
	require.NoError(t, err)

	q.Unmount(ctx)
	q.Unmount(ctx)

	assert.False(t, q.Mounted())
	assert.Equal(t, 0, bus.SubscriberCount(eventbus.TopicDataChanged))
	assert.Equal(t, 0, bus.SubscriberCount(eventbus.TopicStorage))
	assert.Equal(t, 0, bus.SubscriberCount(eventbus.TopicFocus))
	assert.Equal(t, 0, client.Observers("standings"))

	q.HandleEvent(ctx, eventbus.ChangedAll())
	bus.Publish(ctx, eventbus.ChangedAll())
	bus.Publish(ctx, eventbus.Focus())

	res := q.Result()
	assert.False(t, res.IsStale)

	q.Mount(ctx)
	assert.False(t, q.Mounted(), "an unmounted binding stays unmounted")
}

func TestQuery_Update(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)
	bus := eventbus.New("test")

	var calls int32

	q := NewQuery(client, bus, Key("team", 1), countingFetcher(&calls), QueryOptions{WatchKeys: []string{"teams", "payments"}})
	q.Mount(ctx)
	defer q.Unmount(ctx)

	assert.False(t, q.Update(ctx, Key("team", int64(1)), []string{"payments", "teams", "teams"}))
	assert.Equal(t, 1, client.Observers("team:1"))

	assert.True(t, q.Update(ctx, Key("team", 2), []string{"teams"}))
	assert.Equal(t, 0, client.Observers("team:1"))
	assert.Equal(t, 1, client.Observers("team:2"))
	assert.Equal(t, 1, bus.SubscriberCount(eventbus.TopicDataChanged))
	assert.Equal(t, "team:2", q.Key().String())

	_, err := q.Get(ctx)
	require.NoError(t, err)

	bus.Publish(ctx, eventbus.Changed("payments"))
	assert.False(t, q.Result().IsStale, "payments is no longer watched")

	bus.Publish(ctx, eventbus.Changed("teams"))
	assert.True(t, q.Result().IsStale || atomic.LoadInt32(&calls) == 2)
}

func TestQuery_GetUnmounted(t *testing.T) {
	ctx := context.Background()
	client := newQueryClient(t)

	var calls int32

	q := NewQuery(client, eventbus.New("test"), Key("standings"), countingFetcher(&calls), QueryOptions{})

	v, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
