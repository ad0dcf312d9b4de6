package models

import (
	"encoding/json"
	"time"
)

// CacheEntry is a read-through cache snapshot of a remote read, unrelated to
// the sync machinery. Expired entries are treated as misses, not purged.
type CacheEntry struct {
	TableName string
	Key       string
	Payload   json.RawMessage
	CachedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is stale at the given instant.
func (c *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
