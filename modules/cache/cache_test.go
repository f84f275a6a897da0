package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Requires Redis on localhost:6379; tests skip otherwise.
const testRedisAddr = "localhost:6379"

func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	prefix := "task-api-test:" + t.Name() + ":"
	c, err := Connect(context.Background(), Config{
		Addr:   testRedisAddr,
		Prefix: prefix,
		TTL:    time.Minute,
	})
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := c.client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			c.client.Del(ctx, keys...)
		}
		c.Close()
	})
	return c
}

type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestCache_SetGet(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "u1", entry{ID: "u1", Name: "Ada"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got entry
	found, err := c.Get(ctx, "u1", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() should hit after Set")
	}
	if got.Name != "Ada" {
		t.Errorf("Name = %q, want %q", got.Name, "Ada")
	}
}

func TestCache_Miss(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	var got entry
	found, err := c.Get(ctx, "missing", &got)
	if err != nil || found {
		t.Fatalf("Get(missing) = %v, %v; want false, nil", found, err)
	}

	if err := c.Set(ctx, "u2", entry{ID: "u2"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	found, _ = c.Get(ctx, "u3", &got)
	if found {
		t.Error("Get(u3) should miss")
	}

	stats := c.Stats()
	if stats.Misses != 2 || stats.Sets != 1 {
		t.Errorf("Stats() = %+v, want 2 misses and 1 set", stats)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Error("Connect() to a closed port should fail")
	}
}

func TestNew_Stats(t *testing.T) {
	c := New(redis.NewClient(&redis.Options{Addr: testRedisAddr}), "p:", time.Minute)
	defer c.Close()

	if stats := c.Stats(); stats.HitRate != 0 || stats.Hits != 0 {
		t.Errorf("fresh Stats() = %+v, want zero", stats)
	}
}
