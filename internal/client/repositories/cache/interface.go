package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bobdavies/creatuno/internal/client/models"
)

// Repository is a TTL-based read cache over remote-API responses, independent
// of the entity sync machinery. Expired entries count as misses and are left
// in place to be overwritten by later caches.
type Repository interface {
	// Put stores a payload snapshot under (table, key) with the given TTL,
	// replacing any previous entry.
	Put(ctx context.Context, table, key string, payload json.RawMessage, ttl time.Duration) error

	// Get returns the snapshot if present and not expired, else
	// common.ErrNotFound.
	Get(ctx context.Context, table, key string) (*models.CacheEntry, error)

	// PurgeExpired removes entries in a table that expired before now.
	// Maintenance only; correctness never depends on it running.
	PurgeExpired(ctx context.Context, table string) (int64, error)
}
