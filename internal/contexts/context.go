package contexts

import "context"

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	container := getContainer(ctx)
	container.mu.Lock()
	container.TraceID = &traceID
	container.mu.Unlock()

	return withContainer(ctx, container)
}

// GetTraceID retrieves the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	if container.TraceID != nil {
		return *container.TraceID, true
	}

	return "", false
}

// WithRequestID stores the request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	container := getContainer(ctx)
	container.mu.Lock()
	container.RequestID = &requestID
	container.mu.Unlock()

	return withContainer(ctx, container)
}

// GetRequestID retrieves the request id from the context.
func GetRequestID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	if container.RequestID != nil {
		return *container.RequestID, true
	}

	return "", false
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	container := getContainer(ctx)
	container.mu.Lock()
	container.OperationName = &name
	container.mu.Unlock()

	return withContainer(ctx, container)
}

// GetOperationName retrieves the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	if container.OperationName != nil {
		return *container.OperationName, true
	}

	return "", false
}

// WithSessionID stores the client session id in the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	container := getContainer(ctx)
	container.mu.Lock()
	container.SessionID = &sessionID
	container.mu.Unlock()

	return withContainer(ctx, container)
}

// GetSessionID retrieves the client session id from the context.
func GetSessionID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	if container.SessionID != nil {
		return *container.SessionID, true
	}

	return "", false
}

// AddError records a non-fatal error so the access log can report it.
func AddError(ctx context.Context, err error) context.Context {
	if err == nil {
		return ctx
	}

	container := getContainer(ctx)
	container.mu.Lock()
	container.Errors = append(container.Errors, err)
	container.mu.Unlock()

	return withContainer(ctx, container)
}

// GetErrors returns a copy of the recorded errors.
func GetErrors(ctx context.Context) []error {
	container := getContainer(ctx)
	container.mu.RLock()
	defer container.mu.RUnlock()

	if len(container.Errors) == 0 {
		return nil
	}

	errs := make([]error, len(container.Errors))
	copy(errs, container.Errors)

	return errs
}
