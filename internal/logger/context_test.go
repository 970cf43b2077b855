package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestFromContext_RoundTrip(t *testing.T) {
	base := zap.NewNop()

	got := FromContext(ContextWithLogger(context.Background(), base))
	if got != base {
		t.Fatal("expected the stored logger back")
	}
}

func TestFromContext_Missing(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("expected nil without a stored logger, got %v", got)
	}
}
