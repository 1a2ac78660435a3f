// Package controllers maps HTTP requests onto the service layer and
// shapes responses through the JSON envelope.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/nikhilverma/shopline/pkg/middleware"
	"github.com/nikhilverma/shopline/pkg/router"
	"github.com/nikhilverma/shopline/pkg/session"
)

// paramUint reads a numeric route parameter; 0 means missing or invalid.
func paramUint(r *http.Request, name string) uint {
	n, err := strconv.ParseUint(router.Param(r, name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// queryInt64 reads an int64 query parameter with a fallback.
func queryInt64(r *http.Request, name string, fallback int64) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// pageParams reads the standard page/limit pagination parameters.
func pageParams(r *http.Request) (page, limit int) {
	return queryInt(r, "page", 1), queryInt(r, "limit", 20)
}

// userFromCtx returns the authenticated user ID placed by the auth
// middleware.
func userFromCtx(r *http.Request) (uint, bool) {
	return middleware.UserIDFromCtx(r)
}

// identity resolves who the cart belongs to: the authenticated user when
// present, otherwise the guest session.
func identity(r *http.Request) (userID uint, sessionID string) {
	if id, ok := middleware.UserIDFromCtx(r); ok {
		return id, ""
	}
	if s := session.FromCtx(r); s != nil {
		return 0, s.ID()
	}
	return 0, ""
}
