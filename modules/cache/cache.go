// Package cache is a small Redis cache-aside layer keyed by string.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values in Redis under a key prefix.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
	sets   atomic.Uint64
	errs   atomic.Uint64
}

// Stats is a point-in-time view of the cache counters.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Sets    uint64  `json:"sets"`
	Errors  uint64  `json:"errors"`
	HitRate float64 `json:"hit_rate"`
}

// Config holds cache configuration.
type Config struct {
	Addr     string
	Password string
	Prefix   string
	TTL      time.Duration
}

// Connect creates a Redis client for cfg and verifies it answers.
func Connect(ctx context.Context, cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return New(client, cfg.Prefix, cfg.TTL), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get decodes the value stored at key into dest.
// It reports false with a nil error on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return false, nil
		}
		c.errs.Add(1)
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.errs.Add(1)
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	c.hits.Add(1)
	return true, nil
}

// Set stores value at key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.errs.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.errs.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}

	c.sets.Add(1)
	return nil
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Hits:    hits,
		Misses:  misses,
		Sets:    c.sets.Load(),
		Errors:  c.errs.Load(),
		HitRate: hitRate,
	}
}

// Ping checks if the Redis connection is healthy.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
