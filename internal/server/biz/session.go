package biz

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/contexts"
	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/pkg/querycache"
)

// Signal types reported by clients.
const (
	SignalFocus      = "focus"
	SignalVisibility = "visibility"
	SignalOnline     = "online"
)

const maxSessionIDLength = 128

type SignalInput struct {
	Type    string `json:"type"`
	Visible bool   `json:"visible"`
}

// Session is a connected client. Its Env bus carries the focus and visibility
// events that client reports.
type Session struct {
	ID  string
	Env *eventbus.Bus
}

type SessionServiceParams struct {
	fx.In

	Config      Config
	QueryClient *querycache.Client
}

// SessionService keeps client sessions until they stop reporting for the
// configured TTL.
type SessionService struct {
	QueryClient *querycache.Client

	mu       sync.Mutex
	sessions *gocache.Cache
}

func NewSessionService(params SessionServiceParams) *SessionService {
	ttl := lo.CoalesceOrEmpty(params.Config.SessionTTL, 10*time.Minute)

	sessions := gocache.New(ttl, ttl/2)
	sessions.OnEvicted(func(id string, _ any) {
		log.Debug(context.Background(), "client session expired", log.String("session_id", id))
	})

	return &SessionService{
		QueryClient: params.QueryClient,
		sessions:    sessions,
	}
}

// Acquire returns the session with id, creating it when missing, and extends
// its lifetime.
func (svc *SessionService) Acquire(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxSessionIDLength {
		return nil, invalidInput("session id is invalid")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	var s *Session
	if v, ok := svc.sessions.Get(id); ok {
		s = v.(*Session)
	} else {
		s = &Session{ID: id, Env: eventbus.New("session:" + id)}
	}

	svc.sessions.SetDefault(id, s)

	return s, nil
}

// Signal delivers a client report. Focus and visibility go to the session
// env bus. Focus and online also refetch shared queries that opted into them.
func (svc *SessionService) Signal(ctx context.Context, id string, input SignalInput) error {
	s, err := svc.Acquire(id)
	if err != nil {
		return err
	}

	ctx = contexts.WithSessionID(ctx, s.ID)

	switch input.Type {
	case SignalFocus:
		s.Env.Publish(ctx, eventbus.Focus())
		svc.QueryClient.Focus()
	case SignalVisibility:
		s.Env.Publish(ctx, eventbus.Visibility(input.Visible))
	case SignalOnline:
		svc.QueryClient.Reconnect()
	default:
		return invalidInput("unknown signal type " + input.Type)
	}

	log.Debug(ctx, "client signal", log.String("type", input.Type), log.Bool("visible", input.Visible))

	return nil
}

// Count returns the number of live sessions.
func (svc *SessionService) Count() int {
	return svc.sessions.ItemCount()
}

func (svc *SessionService) Stop() {
	svc.sessions.Flush()
}
