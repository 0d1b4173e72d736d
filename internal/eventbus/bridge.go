package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arenax/arenax/internal/log"
)

const (
	defaultChannel    = "arenax:data-changed"
	maxReceiveBackoff = 30 * time.Second
)

type BridgeOptions struct {
	// Channel is the redis pub/sub channel. Defaults to arenax:data-changed.
	Channel string
	// InstanceID identifies this process; generated when empty.
	InstanceID string
	// PublishTimeout bounds each redis publish. Defaults to 2s.
	PublishTimeout time.Duration
	// ReceiveBackoff is the first wait after a failed receive. It doubles on
	// each consecutive failure up to 30s. Defaults to 500ms.
	ReceiveBackoff time.Duration
}

// envelope is the wire format on the redis channel.
type envelope struct {
	Origin string  `json:"origin"`
	Key    *string `json:"key,omitempty"`
}

// Bridge relays local data-changed events to other instances over redis and
// re-publishes their events locally on TopicStorage.
//
// Relayed events never go back out on the channel, so two bridged instances
// do not echo each other.
type Bridge struct {
	bus        *Bus
	client     *redis.Client
	channel    string
	instanceID string
	timeout    time.Duration
	backoff    time.Duration

	// wait is replaced in tests.
	wait func(ctx context.Context, d time.Duration) error

	mu     sync.Mutex
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBridge(bus *Bus, client *redis.Client, opts BridgeOptions) (*Bridge, error) {
	if bus == nil {
		return nil, errors.New("eventbus.Bridge: bus is required")
	}

	if client == nil {
		return nil, errors.New("eventbus.Bridge: redis client is required")
	}

	channel := opts.Channel
	if channel == "" {
		channel = defaultChannel
	}

	instanceID := opts.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	timeout := opts.PublishTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	backoff := opts.ReceiveBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	return &Bridge{
		bus:        bus,
		client:     client,
		channel:    channel,
		instanceID: instanceID,
		timeout:    timeout,
		backoff:    backoff,
		wait:       waitContext,
	}, nil
}

// InstanceID returns the origin id stamped on outgoing events.
func (b *Bridge) InstanceID() string {
	return b.instanceID
}

// Start subscribes to the redis channel and begins relaying.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pubsub != nil {
		return nil
	}

	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	b.pubsub = pubsub
	b.cancel = cancel
	b.done = make(chan struct{})

	go b.receiveLoop(loopCtx, pubsub, b.done)

	b.bus.Subscribe(TopicDataChanged, b)

	log.Info(ctx, "eventbus bridge started",
		log.String("channel", b.channel),
		log.String("instance_id", b.instanceID))

	return nil
}

// Stop unsubscribes from the bus and closes the redis subscription.
func (b *Bridge) Stop(ctx context.Context) error {
	b.mu.Lock()

	if b.pubsub == nil {
		b.mu.Unlock()
		return nil
	}

	b.bus.Unsubscribe(TopicDataChanged, b)

	b.cancel()
	err := b.pubsub.Close()
	done := b.done

	b.pubsub = nil
	b.cancel = nil
	b.done = nil
	b.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	log.Info(ctx, "eventbus bridge stopped", log.String("channel", b.channel))

	return err
}

// HandleEvent forwards locally originated data-changed events to redis.
func (b *Bridge) HandleEvent(ctx context.Context, event Event) {
	if event.Origin != "" {
		return
	}

	payload, err := json.Marshal(envelope{Origin: b.instanceID, Key: event.Key})
	if err != nil {
		log.Warn(ctx, "eventbus bridge encode failed", log.Cause(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	if err := b.client.Publish(pubCtx, b.channel, payload).Err(); err != nil {
		log.Warn(ctx, "eventbus bridge publish failed",
			log.String("channel", b.channel),
			log.Cause(err))
	}
}

func (b *Bridge) receiveLoop(ctx context.Context, ps *redis.PubSub, done chan struct{}) {
	defer close(done)

	delay := b.backoff

	for {
		msg, err := ps.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, redis.ErrClosed) || ctx.Err() != nil {
				return
			}

			log.Warn(context.Background(), "eventbus bridge receive failed",
				log.String("channel", b.channel),
				log.Duration("retry_in", delay),
				log.Cause(err))

			if b.wait(ctx, delay) != nil {
				return
			}

			delay = min(delay*2, maxReceiveBackoff)

			continue
		}

		delay = b.backoff

		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Warn(context.Background(), "eventbus bridge decode failed",
				log.String("channel", b.channel),
				log.String("payload", msg.Payload),
				log.Cause(err))

			continue
		}

		if env.Origin == b.instanceID {
			continue
		}

		b.bus.Publish(ctx, Event{
			Topic:  TopicStorage,
			Key:    env.Key,
			Origin: env.Origin,
		})
	}
}

func waitContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
