package refresh

import "github.com/arenax/arenax/internal/eventbus"

// Option configures a binding.
type Option func(*bindingOptions)

type bindingOptions struct {
	env  eventbus.Source
	name string
}

// WithEnv sets the source of focus and visibility events. It defaults to the
// bus the binding subscribes to.
func WithEnv(src eventbus.Source) Option {
	return func(o *bindingOptions) {
		if src != nil {
			o.env = src
		}
	}
}

// WithName names the binding in logs.
func WithName(name string) Option {
	return func(o *bindingOptions) {
		o.name = name
	}
}

func applyOptions(bus eventbus.Source, opts []Option) bindingOptions {
	o := bindingOptions{env: bus}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

type state int

const (
	stateNew state = iota
	stateMounted
	stateUnmounted
)
