package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/log"
)

// TickerOptions configures a Ticker.
type TickerOptions struct {
	// Keys is the watch list. Empty watches everything.
	Keys []string

	// Interval adds one tick per elapsed period when greater than zero.
	Interval time.Duration
}

// timerFunc starts a periodic timer and returns its channel and stop func.
type timerFunc func(d time.Duration) (<-chan time.Time, func())

func newTimer(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Ticker counts qualifying events while mounted. It fetches nothing; the
// consumer reads Tick or waits on Changes and re-runs its own work.
type Ticker struct {
	bus  eventbus.Source
	env  eventbus.Source
	name string

	newTimer timerFunc

	mu       sync.Mutex
	state    state
	tick     uint64
	watch    WatchList
	interval time.Duration
	changes  chan struct{}

	timerStop chan struct{}
	timerDone chan struct{}
}

// NewTicker creates an unmounted ticker.
func NewTicker(bus eventbus.Source, opts TickerOptions, options ...Option) *Ticker {
	o := applyOptions(bus, options)

	name := o.name
	if name == "" {
		name = "ticker"
	}

	interval := opts.Interval
	if interval < 0 {
		interval = 0
	}

	return &Ticker{
		bus:      bus,
		env:      o.env,
		name:     name,
		newTimer: newTimer,
		watch:    NewWatchList(opts.Keys...),
		interval: interval,
		changes:  make(chan struct{}, 1),
	}
}

// Mount resets the tick to zero and subscribes. It has no effect on a
// mounted or unmounted ticker.
func (t *Ticker) Mount(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateNew {
		return
	}

	t.tick = 0
	t.subscribeLocked()
	t.startTimerLocked()
	t.state = stateMounted

	log.Debug(ctx, "ticker mounted",
		log.String("name", t.name),
		log.Strings("keys", t.watch.Keys()),
		log.Duration("interval", t.interval))
}

// Unmount cancels the timer and removes every subscription. The tick keeps
// its last value and Changes is closed.
func (t *Ticker) Unmount(ctx context.Context) {
	t.mu.Lock()

	if t.state != stateMounted {
		if t.state == stateNew {
			close(t.changes)
		}

		t.state = stateUnmounted
		t.mu.Unlock()

		return
	}

	t.state = stateUnmounted
	t.unsubscribeLocked()
	done := t.stopTimerLocked()
	close(t.changes)
	t.mu.Unlock()

	if done != nil {
		<-done
	}

	log.Debug(ctx, "ticker unmounted", log.String("name", t.name), log.Uint64("tick", t.Tick()))
}

// Tick returns the current count.
func (t *Ticker) Tick() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tick
}

// Changes signals after ticks. Several ticks between two receives are
// coalesced into one signal. The channel is closed on Unmount.
func (t *Ticker) Changes() <-chan struct{} {
	return t.changes
}

// Update resubscribes when the keys changed by content and restarts the
// timer when the interval changed. The tick is kept.
func (t *Ticker) Update(ctx context.Context, opts TickerOptions) {
	watch := NewWatchList(opts.Keys...)

	interval := opts.Interval
	if interval < 0 {
		interval = 0
	}

	t.mu.Lock()

	keysChanged := !t.watch.Equal(watch)
	intervalChanged := t.interval != interval

	if !keysChanged && !intervalChanged {
		t.mu.Unlock()
		return
	}

	mounted := t.state == stateMounted

	if keysChanged {
		if mounted {
			t.unsubscribeLocked()
		}

		t.watch = watch

		if mounted {
			t.subscribeLocked()
		}
	}

	var done chan struct{}

	if intervalChanged {
		if mounted {
			done = t.stopTimerLocked()
		}

		t.interval = interval

		if mounted {
			t.startTimerLocked()
		}
	}
	t.mu.Unlock()

	if done != nil {
		<-done
	}

	log.Debug(ctx, "ticker updated",
		log.String("name", t.name),
		log.Strings("keys", watch.Keys()),
		log.Duration("interval", interval))
}

// HandleEvent implements eventbus.Handler.
func (t *Ticker) HandleEvent(ctx context.Context, event eventbus.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateMounted {
		return
	}

	switch event.Topic {
	case eventbus.TopicDataChanged, eventbus.TopicStorage:
		if !ShouldRefresh(t.watch.Keys(), event) {
			return
		}
	case eventbus.TopicFocus:
	case eventbus.TopicVisibility:
		if !event.Visible {
			return
		}
	default:
		return
	}

	t.bumpLocked()
}

func (t *Ticker) bumpLocked() {
	t.tick++

	select {
	case t.changes <- struct{}{}:
	default:
	}
}

func (t *Ticker) subscribeLocked() {
	t.bus.Subscribe(eventbus.TopicDataChanged, t)
	t.bus.Subscribe(eventbus.TopicStorage, t)
	t.env.Subscribe(eventbus.TopicFocus, t)
	t.env.Subscribe(eventbus.TopicVisibility, t)
}

func (t *Ticker) unsubscribeLocked() {
	t.bus.Unsubscribe(eventbus.TopicDataChanged, t)
	t.bus.Unsubscribe(eventbus.TopicStorage, t)
	t.env.Unsubscribe(eventbus.TopicFocus, t)
	t.env.Unsubscribe(eventbus.TopicVisibility, t)
}

func (t *Ticker) startTimerLocked() {
	if t.interval <= 0 {
		return
	}

	c, stopTimer := t.newTimer(t.interval)
	stop := make(chan struct{})
	done := make(chan struct{})

	t.timerStop = stop
	t.timerDone = done

	go func() {
		defer close(done)
		defer stopTimer()

		for {
			select {
			case <-stop:
				return
			case <-c:
				t.onInterval(stop)
			}
		}
	}()
}

// onInterval bumps the tick unless the timer it came from was stopped.
func (t *Ticker) onInterval(stop chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateMounted || t.timerStop != stop {
		return
	}

	t.bumpLocked()
}

// stopTimerLocked signals the timer goroutine and returns a channel closed
// when it exits. The caller must wait on it after releasing t.mu.
func (t *Ticker) stopTimerLocked() chan struct{} {
	if t.timerStop == nil {
		return nil
	}

	close(t.timerStop)
	done := t.timerDone

	t.timerStop = nil
	t.timerDone = nil

	return done
}
