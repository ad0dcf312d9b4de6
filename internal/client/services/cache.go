package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/client/repositories/cache"
)

// CacheService serves previously-fetched remote-read payloads while offline.
// It is a thin layer over the cache repository, independent of the sync
// machinery: callers fall back to a live fetch when online and treat a miss
// as an empty result when offline.
type CacheService struct {
	cache cache.Repository
}

// NewCacheService returns a CacheService over the given repository.
func NewCacheService(c cache.Repository) *CacheService {
	return &CacheService{cache: c}
}

// CacheData stores a payload snapshot under (table, key) with the given TTL.
func (s *CacheService) CacheData(ctx context.Context, table, key string, payload json.RawMessage, ttl time.Duration) error {
	return s.cache.Put(ctx, table, key, payload, ttl)
}

// GetCachedData returns the snapshot if present and not expired, else
// common.ErrNotFound.
func (s *CacheService) GetCachedData(ctx context.Context, table, key string) (*models.CacheEntry, error) {
	return s.cache.Get(ctx, table, key)
}
