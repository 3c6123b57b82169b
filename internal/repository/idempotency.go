package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// IdempotencyRecord is a cached response for a previously seen key
type IdempotencyRecord struct {
	StatusCode   int
	ContentType  string
	ResponseBody []byte
}

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// Get retrieves an existing idempotency record, or nil if none exists
	Get(ctx context.Context, key, route string) (*IdempotencyRecord, error)

	// Store saves a new idempotency record
	Store(ctx context.Context, key, route string, record IdempotencyRecord) error
}

type idempotencyRepository struct {
	cache *expirable.LRU[string, IdempotencyRecord]
}

// NewIdempotencyRepository creates an in-process idempotency cache holding at
// most size records, each for ttl
func NewIdempotencyRepository(size int, ttl time.Duration) IdempotencyRepository {
	return &idempotencyRepository{
		cache: expirable.NewLRU[string, IdempotencyRecord](size, nil, ttl),
	}
}

func idempotencyCacheKey(key, route string) string {
	return route + "\x00" + key
}

func (r *idempotencyRepository) Get(ctx context.Context, key, route string) (*IdempotencyRecord, error) {
	record, ok := r.cache.Get(idempotencyCacheKey(key, route))
	if !ok {
		return nil, nil // Not found - this is not an error
	}
	return &record, nil
}

func (r *idempotencyRepository) Store(ctx context.Context, key, route string, record IdempotencyRecord) error {
	body := append([]byte(nil), record.ResponseBody...)
	record.ResponseBody = body
	r.cache.Add(idempotencyCacheKey(key, route), record)
	return nil
}
