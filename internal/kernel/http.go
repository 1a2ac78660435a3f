// Package kernel assembles the HTTP handler: the global middleware
// stack, the metrics endpoint, and the application routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/nikhilverma/shopline/app/routes"
	"github.com/nikhilverma/shopline/pkg/cache"
	"github.com/nikhilverma/shopline/pkg/metrics"
	"github.com/nikhilverma/shopline/pkg/middleware"
	"github.com/nikhilverma/shopline/pkg/orm"
	"github.com/nikhilverma/shopline/pkg/reqid"
	"github.com/nikhilverma/shopline/pkg/router"
	"github.com/nikhilverma/shopline/pkg/session"
)

// NewHandler builds the full HTTP handler.
//
// Global middleware, outermost to innermost:
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. Session            — guest cart cookie backed by Redis
//  6. CORS
//  7. Rate limiter
func NewHandler() http.Handler {
	// Bridge the cache into ORM query caching.
	orm.CacheStore = &ormCache{}

	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	routes.RegisterAPI(r)

	// The scrape endpoint mounts on an outer mux so the session, CORS and
	// rate-limit middleware never see Prometheus traffic.
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.Handle("/", r.Handler())
	return mux
}

// NewRouter builds the router without serving it, for route listing.
func NewRouter() *router.Router {
	r := router.New()
	routes.RegisterAPI(r)
	return r
}

// ormCache bridges pkg/cache to the orm.Cacher interface. Lives here so
// neither orm nor cache imports the other.
type ormCache struct{}

func (c *ormCache) Get(key string, dest interface{}) bool {
	return cache.Get(key, dest)
}

func (c *ormCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}
