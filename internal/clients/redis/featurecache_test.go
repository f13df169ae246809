package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/flagbridge-backend/internal/logger"
)

func newTestCache(t *testing.T) (*FeatureCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewFeatureCache(logger.NewNop(), rdb, time.Minute), mr
}

func TestFeatureCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := cache.Get(ctx); ok {
		t.Fatalf("empty cache reported a hit")
	}

	payload := []byte(`{"version":1,"features":[]}`)
	cache.Set(ctx, payload)

	got, ok := cache.Get(ctx)
	if !ok {
		t.Fatalf("cache miss right after set")
	}
	if string(got) != string(payload) {
		t.Fatalf("cached payload = %s, want %s", got, payload)
	}

	cache.Invalidate(ctx)
	if _, ok := cache.Get(ctx); ok {
		t.Fatalf("cache hit after invalidation")
	}
}

func TestFeatureCacheEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, []byte(`{"version":1}`))
	mr.FastForward(2 * time.Minute)

	if _, ok := cache.Get(ctx); ok {
		t.Fatalf("cache hit after the entry's ttl passed")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *FeatureCache
	ctx := context.Background()

	if _, ok := cache.Get(ctx); ok {
		t.Fatalf("nil cache reported a hit")
	}
	cache.Set(ctx, []byte("ignored"))
	cache.Invalidate(ctx)

	if NewFeatureCache(logger.NewNop(), nil, time.Minute) != nil {
		t.Fatalf("constructor without a redis client should yield the nil cache")
	}
}
