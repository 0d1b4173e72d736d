package contexts

import (
	"errors"
	"testing"
)

func TestWithTraceID(t *testing.T) {
	ctx := t.Context()

	newCtx := WithTraceID(ctx, "at-trace")
	if newCtx == ctx {
		t.Error("WithTraceID should return a new context")
	}

	traceID, ok := GetTraceID(newCtx)
	if !ok {
		t.Error("GetTraceID should return true for existing trace ID")
	}

	if traceID != "at-trace" {
		t.Errorf("expected trace ID at-trace, got %s", traceID)
	}
}

func TestGetTraceID_Empty(t *testing.T) {
	traceID, ok := GetTraceID(t.Context())
	if ok {
		t.Error("GetTraceID should return false for empty context")
	}

	if traceID != "" {
		t.Errorf("expected empty trace ID, got %s", traceID)
	}
}

func TestContainerIsShared(t *testing.T) {
	ctx := WithTraceID(t.Context(), "at-trace")

	sameCtx := WithRequestID(ctx, "req-1")
	if sameCtx != ctx {
		t.Error("second value should reuse the stored container")
	}

	ctx = WithOperationName(ctx, "GET /standings")
	ctx = WithSessionID(ctx, "s-1")

	if v, _ := GetRequestID(ctx); v != "req-1" {
		t.Errorf("expected request ID req-1, got %s", v)
	}

	if v, _ := GetOperationName(ctx); v != "GET /standings" {
		t.Errorf("expected operation name, got %s", v)
	}

	if v, _ := GetSessionID(ctx); v != "s-1" {
		t.Errorf("expected session ID s-1, got %s", v)
	}
}

func TestErrors(t *testing.T) {
	ctx := AddError(t.Context(), errors.New("first"))
	ctx = AddError(ctx, nil)
	ctx = AddError(ctx, errors.New("second"))

	errs := GetErrors(ctx)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}

	if errs[0].Error() != "first" || errs[1].Error() != "second" {
		t.Errorf("unexpected errors: %v", errs)
	}

	if GetErrors(t.Context()) != nil {
		t.Error("empty context should have no errors")
	}
}
