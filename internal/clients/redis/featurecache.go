// Package redis holds the optional redis integration. The process runs
// fine without it; a nil cache degrades every call to a miss.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/flagbridge-backend/internal/logger"
	"github.com/yungbote/flagbridge-backend/internal/utils"
)

const featuresKey = "client-features"

// NewClient connects using REDIS_ADDR. Returns (nil, nil) when the
// variable is unset, which callers treat as "no cache configured".
func NewClient(log *logger.Logger) (*goredis.Client, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    utils.GetEnv("REDIS_PASSWORD", "", log),
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// FeatureCache caches the serialized client features response. All
// methods are nil-receiver safe.
type FeatureCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewFeatureCache(baseLog *logger.Logger, rdb *goredis.Client, ttl time.Duration) *FeatureCache {
	if rdb == nil {
		return nil
	}
	return &FeatureCache{
		log: baseLog.With("client", "FeatureCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *FeatureCache) Get(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, featuresKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Feature cache read failed", "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *FeatureCache) Set(ctx context.Context, payload []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, featuresKey, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Feature cache write failed", "error", err)
	}
}

func (c *FeatureCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, featuresKey).Err(); err != nil {
		c.log.Warn("Feature cache invalidation failed", "error", err)
	}
}
