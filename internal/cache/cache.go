// Package cache stores ranked simulation results in Redis, keyed by the
// household's profile hash.
package cache

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/sells-group/relocate-cli/internal/model"
)

const keyPrefix = "relocate:sim:"

// Key returns the cache key for a household hash rendered in locale.
func Key(locale, hash string) string {
	return keyPrefix + locale + ":" + hash
}

// Cache is a Redis-backed result cache. A nil *Cache is valid and never hits.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New wraps an existing client.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Open connects to the Redis server at url (redis://host:port/db). An empty
// url returns a nil cache.
func Open(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, eris.Wrap(err, "cache: parse redis url")
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, eris.Wrap(err, "cache: ping redis")
	}
	return New(client, ttl), nil
}

// Get returns cached results, or nil on a miss.
func (c *Cache) Get(ctx context.Context, locale, hash string) ([]model.SimulationResult, error) {
	if c == nil {
		return nil, nil
	}
	data, err := c.client.Get(ctx, Key(locale, hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "cache: get")
	}

	var results []model.SimulationResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, eris.Wrap(err, "cache: unmarshal results")
	}
	return results, nil
}

// Set stores results under the household hash with the configured TTL.
func (c *Cache) Set(ctx context.Context, locale, hash string, results []model.SimulationResult) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(results)
	if err != nil {
		return eris.Wrap(err, "cache: marshal results")
	}
	return eris.Wrap(c.client.Set(ctx, Key(locale, hash), data, c.ttl).Err(), "cache: set")
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return eris.Wrap(c.client.Ping(ctx).Err(), "cache: ping")
}

// Close releases the client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
