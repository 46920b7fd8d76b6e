package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetConsumer(ctx) != "" {
		t.Fatal("empty context should have no fields")
	}

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithConsumer(ctx, "/quota")

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}
	if got := GetConsumer(ctx); got != "/quota" {
		t.Errorf("GetConsumer() = %q, want /quota", got)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithRequestID(context.Background(), "req-42")
	FromContext(ctx, base).Info("hello")

	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("log line missing request_id: %s", buf.String())
	}
}

func TestFromContext_NoFields(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if got := FromContext(context.Background(), base); got != base {
		t.Error("FromContext should return the same logger when ctx has no fields")
	}
}
