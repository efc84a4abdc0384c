package repository

import (
	"context"
	"time"
)

// CacheRepository caches small string values, such as standalone calculator
// results keyed by their inputs. Implementations may evict at will; callers
// must treat a miss as normal.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
