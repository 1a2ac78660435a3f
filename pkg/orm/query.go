// Package orm is a chainable query helper over the shared GORM handle.
// Repositories use it for reads, writes, pagination, transactions and
// read-through Redis caching.
package orm

import (
	"time"

	"github.com/nikhilverma/shopline/pkg/database"
	"github.com/nikhilverma/shopline/pkg/metrics"
	"gorm.io/gorm"
)

// Cacher is the cache hook used by Query.Cache. Wired to pkg/cache at boot
// (the indirection keeps orm and cache from importing each other).
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is set by the HTTP kernel during boot.
var CacheStore Cacher

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the shared connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Wrap starts a query chain on an explicit *gorm.DB (used inside transactions).
func Wrap(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare case a repository needs
// raw GORM (batch updates with expressions, FOR UPDATE locks).
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Preload(association string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(association, args...)}
}

// Get finds all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First finds the first matching row. Returns gorm.ErrRecordNotFound when
// nothing matches.
func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

// Count counts matching rows.
func (q *Query) Count() (int64, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Create inserts v.
func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

// Save upserts v (full-row update by primary key).
func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

// Updates applies a partial update to matching rows.
func (q *Query) Updates(values interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Updates(values).Error
}

// Delete removes v (soft delete for gorm.Model types).
func (q *Query) Delete(v interface{}) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.db.Delete(v).Error
}

// GetWithPagination fills dest with one page of results and returns the
// pagination metadata. page and limit are 1-based and clamped.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	defer metrics.ObserveDBQuery("select", time.Now())
	err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// Cache is a read-through cache: on hit dest is filled from Redis, on miss
// the query runs and the result is stored under key for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.Get(dest); err != nil {
		return err
	}

	if CacheStore != nil {
		CacheStore.Set(key, dest, ttl) //nolint:errcheck
	}
	return nil
}

// Transaction runs fn inside a database transaction. Any error rolls the
// whole transaction back; stock, order and payment writes for one operation
// always travel together through here.
func Transaction(fn func(tx *gorm.DB) error) error {
	defer metrics.ObserveDBQuery("transaction", time.Now())
	return database.DB.Transaction(fn)
}
