// internal/core/ports/cache.go
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository stores JSON values by key. Implementations return
// ErrCacheMiss for absent keys.
type CacheRepository interface {
	Set(ctx context.Context, key string, value any) error
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// GetOrSet fills dest from cache, or from fetch on a miss.
	GetOrSet(ctx context.Context, key string, dest any,
		fetch func() (any, error), ttl time.Duration) error

	Ping(ctx context.Context) error
}
