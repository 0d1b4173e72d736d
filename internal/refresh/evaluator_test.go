package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arenax/arenax/internal/eventbus"
)

func TestShouldRefresh(t *testing.T) {
	tests := []struct {
		name  string
		watch []string
		event eventbus.Event
		want  bool
	}{
		{name: "watched key", watch: []string{"standings"}, event: eventbus.Changed("standings"), want: true},
		{name: "unwatched key", watch: []string{"standings"}, event: eventbus.Changed("announcements"), want: false},
		{name: "empty watch list", watch: nil, event: eventbus.Changed("payments"), want: true},
		{name: "no key", watch: []string{"standings"}, event: eventbus.ChangedAll(), want: true},
		{name: "broadcast key", watch: []string{"standings"}, event: eventbus.Changed(BroadcastKey), want: true},
		{name: "one of many", watch: []string{"teams", "payments"}, event: eventbus.Changed("payments"), want: true},
		{name: "empty string key", watch: []string{"teams"}, event: eventbus.Changed(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRefresh(tt.watch, tt.event))
		})
	}
}

func TestShouldRefresh_Laws(t *testing.T) {
	lists := [][]string{
		nil,
		{"standings"},
		{"teams", "payments"},
		{"a", "b", "c", "announcements"},
	}
	keys := []string{"standings", "teams", "payments", "announcements", "matches", "x"}

	for _, key := range keys {
		assert.True(t, ShouldRefresh(nil, eventbus.Changed(key)), "empty list matches %q", key)
		assert.True(t, ShouldRefresh([]string{}, eventbus.Changed(key)), "empty list matches %q", key)
	}

	for _, w := range lists {
		assert.True(t, ShouldRefresh(w, eventbus.ChangedAll()), "no key matches %v", w)
		assert.True(t, ShouldRefresh(w, eventbus.Changed(BroadcastKey)), "broadcast matches %v", w)

		if len(w) == 0 {
			continue
		}

		for _, key := range keys {
			want := false

			for _, k := range w {
				if k == key {
					want = true
				}
			}

			assert.Equal(t, want, ShouldRefresh(w, eventbus.Changed(key)), "watch %v key %q", w, key)
		}
	}
}

func TestShouldRefresh_Pure(t *testing.T) {
	w := []string{"teams"}
	ev := eventbus.Changed("teams")

	for range 5 {
		assert.True(t, ShouldRefresh(w, ev))
	}

	assert.Equal(t, []string{"teams"}, w)
	assert.Equal(t, "teams", *ev.Key)
}
