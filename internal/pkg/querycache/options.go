package querycache

import "time"

// Options configures a Client.
type Options struct {
	// Name is used for logging purposes.
	Name string `conf:"name" yaml:"name" json:"name"`

	// Size bounds the number of entries kept. Defaults to 512.
	Size int `conf:"size" yaml:"size" json:"size"`

	// DebounceDelay batches background refetches triggered by invalidation.
	// Defaults to 50ms.
	DebounceDelay time.Duration `conf:"debounce_delay" yaml:"debounce_delay" json:"debounce_delay"`

	// FetchTimeout bounds each background refetch. Defaults to 30s.
	FetchTimeout time.Duration `conf:"fetch_timeout" yaml:"fetch_timeout" json:"fetch_timeout"`

	// Retry is the number of extra attempts after a failed fetch.
	Retry int `conf:"retry" yaml:"retry" json:"retry"`

	// RetryDelay is the pause between attempts. Defaults to 200ms.
	RetryDelay time.Duration `conf:"retry_delay" yaml:"retry_delay" json:"retry_delay"`
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "query"
	}

	if o.Size <= 0 {
		o.Size = 512
	}

	if o.DebounceDelay <= 0 {
		o.DebounceDelay = 50 * time.Millisecond
	}

	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 30 * time.Second
	}

	if o.RetryDelay <= 0 {
		o.RetryDelay = 200 * time.Millisecond
	}

	return o
}

// QueryOptions are per-entry settings.
type QueryOptions struct {
	// StaleTime marks fetched data stale once elapsed. Zero keeps data fresh
	// until the entry is invalidated.
	StaleTime time.Duration `json:"stale_time,omitempty"`

	// RefetchOnFocus makes Client.Focus invalidate the entry.
	RefetchOnFocus bool `json:"refetch_on_focus,omitempty"`

	// RefetchOnReconnect makes Client.Reconnect invalidate the entry.
	RefetchOnReconnect bool `json:"refetch_on_reconnect,omitempty"`

	// Retry overrides the client retry count when greater than zero.
	Retry int `json:"retry,omitempty"`
}

// Result is a snapshot of an entry.
type Result struct {
	Value     any
	Err       error
	HasValue  bool
	Fetching  bool
	Stale     bool
	FetchedAt time.Time
}
