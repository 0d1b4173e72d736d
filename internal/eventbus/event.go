package eventbus

// Topics carried by the bus.
const (
	// TopicDataChanged is published by every mutation of shared data.
	TopicDataChanged = "arenax:data-changed"
	// TopicStorage carries change notifications relayed from other instances.
	TopicStorage = "storage"
	// TopicFocus signals that a client window regained focus.
	TopicFocus = "focus"
	// TopicVisibility signals a document visibility change.
	TopicVisibility = "visibilitychange"
)

// Event is a single notification delivered to subscribers.
type Event struct {
	Topic string `json:"topic"`

	// Key names the logical resource that changed. Nil means unknown scope.
	Key *string `json:"key,omitempty"`

	// Visible is the new visibility state for TopicVisibility.
	Visible bool `json:"visible,omitempty"`

	// Origin is the instance id for events relayed by a Bridge.
	Origin string `json:"origin,omitempty"`
}

// HasKey reports whether the event names a resource.
func (e Event) HasKey() bool {
	return e.Key != nil
}

// KeyOrEmpty returns the key, or "" when absent.
func (e Event) KeyOrEmpty() string {
	if e.Key == nil {
		return ""
	}

	return *e.Key
}

// Changed builds a data-changed event for key.
func Changed(key string) Event {
	return Event{Topic: TopicDataChanged, Key: &key}
}

// ChangedAll builds a data-changed event without a key, which every
// subscriber treats as a reason to refresh.
func ChangedAll() Event {
	return Event{Topic: TopicDataChanged}
}

// Focus builds a focus event.
func Focus() Event {
	return Event{Topic: TopicFocus}
}

// Visibility builds a visibility change event.
func Visibility(visible bool) Event {
	return Event{Topic: TopicVisibility, Visible: visible}
}
