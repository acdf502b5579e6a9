package database

import (
	"context"
	"testing"
	"time"
)

func TestMemoryPosterCache(t *testing.T) {
	cache := NewMemoryPosterCache(time.Hour, 10)
	ctx := context.Background()

	if _, found, err := cache.GetPoster(ctx, "coco:2017"); err != nil || found {
		t.Fatalf("expected a miss, got found=%v err=%v", found, err)
	}

	cache.SetPoster(ctx, "coco:2017", "https://img/coco.jpg")
	url, found, err := cache.GetPoster(ctx, "coco:2017")
	if err != nil || !found || url != "https://img/coco.jpg" {
		t.Errorf("GetPoster = %q, %v, %v", url, found, err)
	}

	cache.SetPoster(ctx, "unknown:0", "")
	if url, found, _ := cache.GetPoster(ctx, "unknown:0"); !found || url != "" {
		t.Errorf("cached miss should be found with an empty URL, got %q %v", url, found)
	}
}

func TestMemoryPosterCacheExpiry(t *testing.T) {
	cache := NewMemoryPosterCache(time.Minute, 10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.SetPoster(ctx, "k", "v")
	now = now.Add(2 * time.Minute)

	if _, found, _ := cache.GetPoster(ctx, "k"); found {
		t.Error("entry should expire after its TTL")
	}
	if cache.Len() != 0 {
		t.Errorf("expired entry should be dropped, Len = %d", cache.Len())
	}
}

func TestMemoryPosterCacheBounded(t *testing.T) {
	cache := NewMemoryPosterCache(time.Hour, 3)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		cache.SetPoster(ctx, k, "url-"+k)
		now = now.Add(time.Second)
	}

	if cache.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cache.Len())
	}
	for _, k := range []string{"a", "b"} {
		if _, found, _ := cache.GetPoster(ctx, k); found {
			t.Errorf("oldest entry %q should have been evicted", k)
		}
	}
	if url, found, _ := cache.GetPoster(ctx, "e"); !found || url != "url-e" {
		t.Errorf("newest entry missing: %q %v", url, found)
	}
}
