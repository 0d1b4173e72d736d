// Package eventbus provides the process-wide publish/subscribe channel used to
// signal that shared data changed.
package eventbus

import (
	"context"
	"sync"

	"github.com/arenax/arenax/internal/log"
)

// Handler receives events. Implementations must be comparable, typically a
// pointer, since registrations are keyed by (topic, handler).
type Handler interface {
	HandleEvent(ctx context.Context, event Event)
}

// Source is the subscription side of a bus.
type Source interface {
	Subscribe(topic string, handler Handler)
	Unsubscribe(topic string, handler Handler)
}

// Publisher is the publishing side of a bus.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Bus is a synchronous, unbuffered fan-out channel keyed by topic.
//
// Delivery is at most once per handler per event and happens on the
// publishing goroutine. Order across handlers is unspecified.
type Bus struct {
	name string

	mu   sync.RWMutex
	subs map[string]map[Handler]struct{}
}

// New creates an empty bus. The name is used for logging only.
func New(name string) *Bus {
	return &Bus{
		name: name,
		subs: make(map[string]map[Handler]struct{}),
	}
}

// Subscribe registers handler for topic. Registering the same pair twice
// keeps a single registration.
func (b *Bus) Subscribe(topic string, handler Handler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.subs[topic]
	if !ok {
		set = make(map[Handler]struct{})
		b.subs[topic] = set
	}

	set[handler] = struct{}{}
}

// Unsubscribe removes the registration. Unknown pairs are ignored.
func (b *Bus) Unsubscribe(topic string, handler Handler) {
	if handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.subs[topic]
	if !ok {
		return
	}

	delete(set, handler)

	if len(set) == 0 {
		delete(b.subs, topic)
	}
}

// Publish delivers event to every handler subscribed to event.Topic.
// The handler set is snapshotted, so handlers may (un)subscribe while running.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	set := b.subs[event.Topic]

	if len(set) == 0 {
		b.mu.RUnlock()
		return
	}

	handlers := make([]Handler, 0, len(set))
	for h := range set {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	if log.DebugEnabled(ctx) {
		log.Debug(ctx, "eventbus publish",
			log.String("bus", b.name),
			log.String("topic", event.Topic),
			log.String("key", event.KeyOrEmpty()),
			log.Int("handlers", len(handlers)))
	}

	for _, h := range handlers {
		b.dispatch(ctx, h, event)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(ctx, "eventbus handler panicked",
				log.String("bus", b.name),
				log.String("topic", event.Topic),
				log.Any("panic", r))
		}
	}()

	h.HandleEvent(ctx, event)
}

// SubscriberCount returns the number of handlers registered for topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[topic])
}
