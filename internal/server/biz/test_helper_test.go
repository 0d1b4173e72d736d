package biz

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/pkg/querycache"
	"github.com/arenax/arenax/internal/server/db"
)

func newTestStore(t *testing.T) *db.Store {
	t.Helper()

	s, err := db.Open(context.Background(), db.Config{
		Dialect: "sqlite3",
		DSN:     "file:" + filepath.Join(t.TempDir(), "arenax.db") + "?_pragma=busy_timeout(5000)",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newTestQueryClient(t *testing.T) *querycache.Client {
	t.Helper()

	c := querycache.New(querycache.Options{Name: "test", DebounceDelay: 5 * time.Millisecond})
	t.Cleanup(c.Stop)

	return c
}

// keyRecorder collects the keys of data-changed events.
type keyRecorder struct {
	mu   sync.Mutex
	keys []string
}

func recordKeys(bus *eventbus.Bus) *keyRecorder {
	r := &keyRecorder{}
	bus.Subscribe(eventbus.TopicDataChanged, r)

	return r
}

func (r *keyRecorder) HandleEvent(_ context.Context, e eventbus.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys = append(r.keys, e.KeyOrEmpty())
}

func (r *keyRecorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.keys)
}

func (r *keyRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys = nil
}

type tournamentFixture struct {
	svc   *TournamentService
	store *db.Store
	bus   *eventbus.Bus
	keys  *keyRecorder
}

func newTournamentFixture(t *testing.T) *tournamentFixture {
	t.Helper()

	store := newTestStore(t)
	bus := eventbus.New("test")
	keys := recordKeys(bus)

	svc := NewTournamentService(TournamentServiceParams{
		Store:       store,
		Bus:         bus,
		QueryClient: newTestQueryClient(t),
	})

	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })

	return &tournamentFixture{svc: svc, store: store, bus: bus, keys: keys}
}

func (f *tournamentFixture) registerTeam(t *testing.T, name string) string {
	t.Helper()

	team, err := f.svc.RegisterTeam(context.Background(), RegisterTeamInput{
		Name:         name,
		CaptainName:  "Captain " + name,
		CaptainPhone: "0244000000",
		CaptainEmail: "captain@" + name + ".example.com",
	})
	require.NoError(t, err)

	return team.ID
}
