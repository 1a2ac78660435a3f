package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikhilverma/shopline/pkg/session"
)

func sessionCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestMiddlewareSetsCookieForNewGuest(t *testing.T) {
	opts := session.DefaultOptions()

	var id string
	h := session.Middleware(opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = session.FromCtx(r).ID()
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/cart", nil))

	c := sessionCookie(t, rec.Result(), opts.CookieName)
	if c == nil {
		t.Fatalf("first guest response did not set the %s cookie", opts.CookieName)
	}
	if c.Value != id {
		t.Errorf("cookie value %q does not match session ID %q", c.Value, id)
	}
	if !c.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}
	if c.MaxAge <= 0 {
		t.Errorf("session cookie MaxAge = %d, want > 0", c.MaxAge)
	}
}

func TestGuestSessionIDSurvivesAcrossRequests(t *testing.T) {
	opts := session.DefaultOptions()

	var ids []string
	h := session.Middleware(opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, session.FromCtx(r).ID())
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest("GET", "/api/cart", nil))

	c := sessionCookie(t, first.Result(), opts.CookieName)
	if c == nil {
		t.Fatal("no session cookie on first response")
	}

	second := httptest.NewRequest("GET", "/api/cart", nil)
	second.AddCookie(&http.Cookie{Name: opts.CookieName, Value: c.Value})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, second)

	if len(ids) != 2 {
		t.Fatalf("handler ran %d times, want 2", len(ids))
	}
	if ids[0] != ids[1] {
		t.Errorf("guest session ID changed between requests: %q then %q", ids[0], ids[1])
	}

	// A request that already carries the cookie must not be handed a new one.
	if c2 := sessionCookie(t, rec.Result(), opts.CookieName); c2 != nil {
		t.Errorf("second response re-set the session cookie to %q", c2.Value)
	}
}

func TestMiddlewareIgnoresEmptyCookie(t *testing.T) {
	opts := session.DefaultOptions()

	h := session.Middleware(opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromCtx(r).ID() == "" {
			t.Error("blank cookie should still yield a fresh session ID")
		}
	}))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: opts.CookieName, Value: ""})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if c := sessionCookie(t, rec.Result(), opts.CookieName); c == nil {
		t.Error("a blank cookie should be replaced with a real one")
	}
}
