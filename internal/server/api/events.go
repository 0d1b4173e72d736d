package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/arenax/arenax/internal/contexts"
	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/refresh"
	"github.com/arenax/arenax/internal/server/biz"
)

const (
	defaultKeepAlive = 15 * time.Second
	maxStreamKeys    = 32
)

type EventsConfig struct {
	// KeepAlive is the interval of ping events on idle streams.
	KeepAlive time.Duration `conf:"keep_alive" yaml:"keep_alive" json:"keep_alive"`
}

type EventsHandlersParams struct {
	fx.In

	Bus            *eventbus.Bus
	SessionService *biz.SessionService
	Config         EventsConfig `optional:"true"`
}

func NewEventsHandlers(params EventsHandlersParams) *EventsHandlers {
	return &EventsHandlers{
		Bus:            params.Bus,
		SessionService: params.SessionService,
		keepAlive:      lo.CoalesceOrEmpty(params.Config.KeepAlive, defaultKeepAlive),
	}
}

type EventsHandlers struct {
	Bus            *eventbus.Bus
	SessionService *biz.SessionService

	keepAlive time.Duration
}

type TickEvent struct {
	Tick uint64 `json:"tick"`
}

// Stream mounts a ticker for the connection and emits a tick event every
// time it advances. The session query parameter ties the stream to the focus
// and visibility reports of that client.
func (h *EventsHandlers) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	interval, err := parseInterval(c.Query("interval"))
	if err != nil {
		JSONError(c, http.StatusBadRequest, err)
		return
	}

	keys := parseKeys(c.Query("keys"))
	if len(keys) > maxStreamKeys {
		JSONError(c, http.StatusBadRequest, errors.New("too many keys"))
		return
	}

	options := []refresh.Option{refresh.WithName("sse")}

	var session *biz.Session

	if id := lo.CoalesceOrEmpty(c.Query("session"), sessionFromContext(ctx)); id != "" {
		session, err = h.SessionService.Acquire(id)
		if err != nil {
			handleError(c, err)
			return
		}

		ctx = contexts.WithSessionID(ctx, session.ID)
		options = append(options, refresh.WithEnv(session.Env))
	}

	ticker := refresh.NewTicker(h.Bus, refresh.TickerOptions{Keys: keys, Interval: interval}, options...)
	ticker.Mount(ctx)

	defer ticker.Unmount(context.WithoutCancel(ctx))

	log.Debug(ctx, "event stream opened", log.Strings("keys", keys), log.Duration("interval", interval))

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	renderTick(c, ticker.Tick())
	c.Writer.Flush()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	changes := ticker.Changes()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-changes:
			if !ok {
				return false
			}

			renderTick(c, ticker.Tick())

			return true
		case <-keepAlive.C:
			if session != nil {
				// Keeps the session alive while the stream is open.
				_, _ = h.SessionService.Acquire(session.ID)
			}

			c.Render(-1, sse.Event{Event: "ping", Data: ""})

			return true
		}
	})

	log.Debug(ctx, "event stream closed", log.Uint64("tick", ticker.Tick()))
}

func renderTick(c *gin.Context, tick uint64) {
	c.Render(-1, sse.Event{
		Id:    strconv.FormatUint(tick, 10),
		Event: "tick",
		Data:  TickEvent{Tick: tick},
	})
}

type SignalRequest struct {
	Session string `json:"session"`
	Type    string `json:"type" binding:"required"`
	Visible bool   `json:"visible"`
}

// Signal records a focus, visibility or online report of a client session.
func (h *EventsHandlers) Signal(c *gin.Context) {
	var req SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	id := lo.CoalesceOrEmpty(req.Session, sessionFromContext(c.Request.Context()))

	err := h.SessionService.Signal(c.Request.Context(), id, biz.SignalInput{Type: req.Type, Visible: req.Visible})
	if err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type PublishRequest struct {
	// Key names the changed resource. Nil announces a change of everything.
	Key *string `json:"key"`
}

// Publish broadcasts a data change notification.
func (h *EventsHandlers) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		JSONError(c, http.StatusBadRequest, errInvalidRequest)
		return
	}

	event := eventbus.ChangedAll()
	if req.Key != nil {
		key := strings.TrimSpace(*req.Key)
		if key == "" {
			JSONError(c, http.StatusBadRequest, errors.New("key must not be empty"))
			return
		}

		event = eventbus.Changed(key)
	}

	h.Bus.Publish(c.Request.Context(), event)

	log.Info(c.Request.Context(), "change notification published", log.String("key", event.KeyOrEmpty()))

	c.Status(http.StatusAccepted)
}

func sessionFromContext(ctx context.Context) string {
	id, _ := contexts.GetSessionID(ctx)
	return id
}

func parseKeys(raw string) []string {
	return lo.Uniq(lo.Compact(lo.Map(strings.Split(raw, ","), func(k string, _ int) string {
		return strings.TrimSpace(k)
	})))
}

// parseInterval accepts a Go duration ("30s") or a number of milliseconds.
func parseInterval(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if ms < 0 {
			return 0, errors.New("interval must not be negative")
		}

		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, errors.New("invalid interval")
	}

	return d, nil
}
