package contexts

import (
	"context"
	"sync"
)

// ContextKey defines the context key type.
type ContextKey string

const containerContextKey ContextKey = "context_container"

// contextContainer contains all request scoped values.
type contextContainer struct {
	TraceID       *string
	RequestID     *string
	OperationName *string
	SessionID     *string
	Errors        []error
	mu            sync.RWMutex
}

// getContainer returns the container stored in ctx, or a fresh one.
func getContainer(ctx context.Context) *contextContainer {
	if container, ok := ctx.Value(containerContextKey).(*contextContainer); ok {
		return container
	}

	return &contextContainer{}
}

// withContainer stores the container in the context if not already stored.
func withContainer(ctx context.Context, container *contextContainer) context.Context {
	if ctx.Value(containerContextKey) == nil {
		return context.WithValue(ctx, containerContextKey, container)
	}

	return ctx
}
