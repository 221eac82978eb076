package debugctx

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestEnabled(t *testing.T) {
	t.Parallel()

	if Enabled(context.Background()) {
		t.Fatal("expected debug to be disabled by default")
	}
	if !Enabled(WithEnabled(context.Background(), true)) {
		t.Fatal("expected debug to be enabled")
	}
}

func TestLogger(t *testing.T) {
	t.Parallel()

	if Logger(context.Background()) == nil {
		t.Fatal("expected a no-op logger")
	}

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if Logger(ctx) != logger {
		t.Fatal("expected installed logger")
	}
	if WithLogger(ctx, nil) != ctx {
		t.Fatal("a nil logger must leave the context unchanged")
	}
}
