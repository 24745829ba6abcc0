// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/catalog-be/internal/core/ports"
)

// Options mirrors the pool settings of the Redis section of the config
type Options struct {
	Addr            string
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
}

// NewClient creates a client and verifies the server answers
func NewClient(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            opts.Addr,
		Password:        opts.Password,
		DB:              opts.DB,
		MaxRetries:      opts.MaxRetries,
		MinRetryBackoff: opts.MinRetryBackoff,
		MaxRetryBackoff: opts.MaxRetryBackoff,
		DialTimeout:     opts.DialTimeout,
		ReadTimeout:     opts.ReadTimeout,
		WriteTimeout:    opts.WriteTimeout,
		PoolSize:        opts.PoolSize,
		MinIdleConns:    opts.MinIdleConns,
		PoolTimeout:     opts.PoolTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Cache stores JSON encoded values for the catalog listings and report jobs.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.CacheRepository = (*Cache)(nil)

// NewCache returns a cache whose Set uses ttl
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

func (c *Cache) fail(ctx context.Context, op string, err error, attrs ...any) error {
	c.logger.ErrorContext(ctx, "cache "+op+" failed", append(attrs, slog.String("error", err.Error()))...)
	return fmt.Errorf("redis %s: %w", op, err)
}

// Set stores value with the default TTL
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores value under key; a zero ttl keeps it until deleted
func (c *Cache) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return c.fail(ctx, "set", err, slog.String("key", key))
	}
	c.logger.DebugContext(ctx, "cache set", slog.String("key", key), slog.Duration("ttl", ttl))
	return nil
}

// Get decodes the value under key into dest. A missing key is
// ports.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ports.ErrCacheMiss
	case err != nil:
		return c.fail(ctx, "get", err, slog.String("key", key))
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A value that no longer decodes is treated as absent and dropped.
		c.logger.WarnContext(ctx, "discarding undecodable cache value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		_ = c.client.Del(ctx, key).Err()
		return ports.ErrCacheMiss
	}
	return nil
}

// Delete removes keys
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return c.fail(ctx, "del", err, slog.Any("keys", keys))
	}
	return nil
}

// DeletePattern removes every key matching a glob pattern, scanning in
// batches.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return c.fail(ctx, "scan", err, slog.String("pattern", pattern))
		}
		if len(keys) > 0 {
			n, err := c.client.Unlink(ctx, keys...).Result()
			if err != nil {
				return c.fail(ctx, "unlink", err, slog.String("pattern", pattern))
			}
			removed += n
		}
		if cursor = next; cursor == 0 {
			break
		}
	}

	c.logger.DebugContext(ctx, "cache invalidated",
		slog.String("pattern", pattern),
		slog.Int64("removed", removed))
	return nil
}

// GetOrSet fills dest from cache, or from fetch on a miss. Fetch errors are
// returned unwrapped and are never cached. A failure to store the fetched
// value is logged only.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest any,
	fetch func() (any, error), ttl time.Duration) error {

	err := c.Get(ctx, key, dest)
	if !errors.Is(err, ports.ErrCacheMiss) {
		return err
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache fetched value",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return json.Unmarshal(data, dest)
}

// Ping checks if Redis is accessible
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return c.fail(ctx, "ping", err)
	}
	return nil
}
