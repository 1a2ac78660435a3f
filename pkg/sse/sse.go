// Package sse implements Server-Sent Events. The storefront uses it to
// stream order status changes to a customer waiting on the confirmation
// page.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Stream is one open SSE connection.
type Stream struct {
	w       http.ResponseWriter
	r       *http.Request
	flusher http.Flusher
	closed  bool
}

// New prepares an SSE stream on w. Returns nil when the writer cannot
// flush, after replying 500.
func New(w http.ResponseWriter, r *http.Request) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx would buffer otherwise

	return &Stream{w: w, r: r, flusher: flusher}
}

// Send writes a named event with a JSON payload.
func (s *Stream) Send(event string, data any) error {
	if s == nil || s.closed {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}

	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload)
	s.flusher.Flush()
	s.checkClosed()
	return nil
}

// Heartbeat writes an SSE comment to keep intermediaries from timing
// the connection out.
func (s *Stream) Heartbeat() {
	if s == nil || s.closed {
		return
	}
	fmt.Fprint(s.w, ": keepalive\n\n")
	s.flusher.Flush()
}

// IsClosed reports whether the client went away.
func (s *Stream) IsClosed() bool {
	if s == nil {
		return true
	}
	s.checkClosed()
	return s.closed
}

func (s *Stream) checkClosed() {
	select {
	case <-s.r.Context().Done():
		s.closed = true
	default:
	}
}
