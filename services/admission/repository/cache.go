package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"spmb/domain"
)

const logoCacheKey = "spmb:settings:logo"

// logoCacheTTL bounds how long a cached logo is served without any
// revalidation happening at all.
const logoCacheTTL = 15 * time.Minute

type redisLogoCache struct {
	client *redis.Client
}

// NewRedisLogoCache wraps the redis client as a LogoCache. A nil client means
// redis is not configured; every Get is then a miss and Set is a no-op, so the
// settings usecase falls back to plain store reads.
func NewRedisLogoCache(client *redis.Client) domain.LogoCache {
	return &redisLogoCache{
		client: client,
	}
}

func (rc *redisLogoCache) Get(ctx context.Context) (string, bool, error) {
	if rc.client == nil {
		return "", false, nil
	}

	value, err := rc.client.Get(ctx, logoCacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (rc *redisLogoCache) Set(ctx context.Context, dataURI string) error {
	if rc.client == nil {
		return nil
	}
	return rc.client.Set(ctx, logoCacheKey, dataURI, logoCacheTTL).Err()
}
