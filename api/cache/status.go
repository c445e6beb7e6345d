package cache

import (
	"context"
	"fmt"
	"time"

	"imageConverter/api/database"
	"imageConverter/api/models"
)

const (
	statusKeyPrefix = "batch:status:"
	statusTTL       = 10 * time.Minute
)

type StatusCache struct {
	cache *database.Cache
}

func NewStatusCache(cache *database.Cache) *StatusCache {
	return &StatusCache{cache: cache}
}

// Get returns database.ErrCacheMiss when nothing is cached for batchID.
func (sc *StatusCache) Get(ctx context.Context, batchID string) (models.BatchStatus, error) {
	data, err := sc.cache.Get(ctx, key(batchID))
	if err != nil {
		return "", err
	}
	return models.BatchStatus(data), nil
}

func (sc *StatusCache) Set(ctx context.Context, batchID string, status models.BatchStatus) error {
	return sc.cache.Set(ctx, key(batchID), string(status), statusTTL)
}

func (sc *StatusCache) Delete(ctx context.Context, batchID string) error {
	return sc.cache.Del(ctx, key(batchID))
}

func key(batchID string) string {
	return fmt.Sprintf("%s%s", statusKeyPrefix, batchID)
}
