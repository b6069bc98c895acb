// Package orm provides a thin query helper over an injected *gorm.DB with
// pagination and optional read-through caching.
package orm

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Cacher is the cache hook used by Query.Cache. internal/server bridges it to
// pkg/cache at boot so this package does not import Redis directly.
type Cacher interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
}

// CacheStore is the process-wide cache bridge. Nil disables caching.
var CacheStore Cacher

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

// New wraps an injected gorm handle.
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// GetWithPagination fills dest with one page of results and returns the
// pagination metadata. page and limit are clamped to sane values.
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

	offset := (page - 1) * limit
	if err := q.db.Offset(offset).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Cache reads dest from the cache under key, falling back to the query and
// storing the result for ttl on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore != nil && CacheStore.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	if CacheStore != nil {
		_ = CacheStore.Set(key, dest, ttl)
	}
	return nil
}
