package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/flagbridge-backend/internal/clients/redis"
	"github.com/yungbote/flagbridge-backend/internal/logger"
)

type Clients struct {
	Redis *goredis.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	rdb, err := redis.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	if rdb == nil {
		log.Info("REDIS_ADDR not set, feature cache disabled")
	}
	return Clients{Redis: rdb}, nil
}
