package orm

import (
	"context"
	"math"
	"time"

	"github.com/shashiranjanraj/honeyshop/pkg/cache"
	"gorm.io/gorm"
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination clamps page/limit and derives the page count.
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = Normalize(page, limit, 10)
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// MaxPage bounds page numbers so that Offset cannot overflow.
const MaxPage = 100000

// Normalize applies defaults to page/limit: 1 ≤ page ≤ MaxPage, 1 ≤ limit ≤ 100.
func Normalize(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// Offset returns the number of rows to skip for page.
func Offset(page, limit int) int { return (page - 1) * limit }

type Query struct {
	db *gorm.DB
}

// New wraps a connection handle.
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

// WithContext binds ctx to every statement issued by the query.
func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

// Tx runs fn inside a transaction; fn receives a Query bound to it.
func (q *Query) Tx(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
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

func (q *Query) Create(value interface{}) error {
	return q.db.Create(value).Error
}

func (q *Query) Save(value interface{}) error {
	return q.db.Save(value).Error
}

// Updates applies a column map to the current model scope.
func (q *Query) Updates(values map[string]interface{}) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes rows matching the current scope.
func (q *Query) Delete(value interface{}) (int64, error) {
	res := q.db.Delete(value)
	return res.RowsAffected, res.Error
}

// GetWithPagination fills dest with one page and returns the page metadata.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	p := NewPagination(page, limit, total)
	if err := q.db.Offset(Offset(p.Page, p.Limit)).Limit(p.Limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}
	return p, nil
}

// Cache reads through c before querying.
func (q *Query) Cache(ctx context.Context, c *cache.Cache, key string, ttl time.Duration, dest interface{}) error {
	if c.Get(ctx, key, dest) {
		return nil
	}

	if err := q.db.WithContext(ctx).Find(dest).Error; err != nil {
		return err
	}

	_ = c.Set(ctx, key, dest, ttl)
	return nil
}
