package sse_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nikhilverma/shopline/pkg/sse"
)

func TestStreamHeadersAndEvents(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stream", nil)

	s := sse.New(rec, req)
	if s == nil {
		t.Fatal("recorder supports flushing, stream should not be nil")
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control: got %q", cc)
	}

	if err := s.Send("status", map[string]string{"state": "PENDING"}); err != nil {
		t.Fatal(err)
	}
	s.Heartbeat()

	body := rec.Body.String()
	if !strings.Contains(body, "event: status\n") {
		t.Errorf("missing event line in %q", body)
	}
	if !strings.Contains(body, `data: {"state":"PENDING"}`) {
		t.Errorf("missing data line in %q", body)
	}
	if !strings.Contains(body, ": keepalive\n\n") {
		t.Errorf("missing heartbeat in %q", body)
	}
}

func TestStreamDetectsClosedClient(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stream", nil)
	ctx, cancel := context.WithCancel(req.Context())
	req = req.WithContext(ctx)

	s := sse.New(rec, req)
	if s.IsClosed() {
		t.Fatal("stream should start open")
	}

	cancel()
	if !s.IsClosed() {
		t.Error("stream should report closed after context cancellation")
	}
}
