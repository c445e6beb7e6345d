package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Keys and TTL match the api reader.
const (
	statusKeyPrefix = "batch:status:"
	statusTTL       = 10 * time.Minute
)

type StatusCache struct {
	client redis.Cmdable
}

func NewStatusCache(client redis.Cmdable) *StatusCache {
	return &StatusCache{client: client}
}

func (c *StatusCache) Set(ctx context.Context, batchID string, status string) error {
	return c.client.Set(ctx, statusKeyPrefix+batchID, status, statusTTL).Err()
}
