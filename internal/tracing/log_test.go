package tracing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceFieldsHooks(t *testing.T) {
	t.Run("with trace ID", func(t *testing.T) {
		ctx := WithTraceID(context.Background(), "at-test-trace-id")
		fields := TraceFieldsHooks(ctx, "test message")
		assert.Len(t, fields, 1)
		assert.Equal(t, "trace_id", fields[0].Key)
		assert.Equal(t, "at-test-trace-id", fields[0].String)
	})

	t.Run("with operation name", func(t *testing.T) {
		ctx := WithOperationName(context.Background(), "GET /standings")
		fields := TraceFieldsHooks(ctx, "test message")
		assert.Len(t, fields, 1)
		assert.Equal(t, "operation_name", fields[0].Key)
	})

	t.Run("without values", func(t *testing.T) {
		fields := TraceFieldsHooks(context.Background(), "test message")
		assert.Len(t, fields, 0)
	})

	t.Run("with nil context", func(t *testing.T) {
		//nolint:staticcheck // nil context is tolerated by hooks.
		fields := TraceFieldsHooks(nil, "test message")
		assert.Len(t, fields, 0)
	})
}

func TestGenerateIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateTraceID(), "at-"))
	assert.True(t, strings.HasPrefix(GenerateRequestID(), "ar-"))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}
