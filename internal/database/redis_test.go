package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisHealth(t *testing.T) {
	_, client := newTestRedis(t)

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisClient(RedisConfig{Addr: addr}); err == nil {
		t.Error("expected an error for an unreachable Redis")
	}
}

func TestPosterCache(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewPosterCache(client.Client, time.Hour)
	ctx := context.Background()

	if _, found, err := cache.GetPoster(ctx, "coco:2017"); err != nil || found {
		t.Fatalf("expected a miss, got found=%v err=%v", found, err)
	}

	if err := cache.SetPoster(ctx, "coco:2017", "https://img/coco.jpg"); err != nil {
		t.Fatalf("SetPoster failed: %v", err)
	}
	url, found, err := cache.GetPoster(ctx, "coco:2017")
	if err != nil || !found || url != "https://img/coco.jpg" {
		t.Errorf("GetPoster = %q, %v, %v", url, found, err)
	}

	if ttl := mr.TTL("poster:coco:2017"); ttl != time.Hour {
		t.Errorf("TTL = %v, want 1h", ttl)
	}

	if err := cache.SetPoster(ctx, "unknown:0", ""); err != nil {
		t.Fatalf("SetPoster failed: %v", err)
	}
	if url, found, _ := cache.GetPoster(ctx, "unknown:0"); !found || url != "" {
		t.Errorf("cached miss should be found with an empty URL, got %q %v", url, found)
	}
}

func TestPosterCacheExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	cache := NewPosterCache(client.Client, time.Minute)
	ctx := context.Background()

	cache.SetPoster(ctx, "k", "v")
	mr.FastForward(2 * time.Minute)

	if _, found, _ := cache.GetPoster(ctx, "k"); found {
		t.Error("entry should expire after its TTL")
	}
}
