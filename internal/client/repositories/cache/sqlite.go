package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/common"
	"github.com/bobdavies/creatuno/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Put stores a payload snapshot with its computed expiry.
func (r *SQLiteRepository) Put(ctx context.Context, table, key string, payload json.RawMessage, ttl time.Duration) error {
	now := r.now()
	query := `INSERT INTO cache_entries (table_name, key, payload, cached_at, expires_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(table_name, key) DO UPDATE SET
				payload = excluded.payload,
				cached_at = excluded.cached_at,
				expires_at = excluded.expires_at
	`
	_, err := r.db.ExecContext(ctx, query,
		table, key, string(payload), now.UnixMilli(), now.Add(ttl).UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to cache data: %w", err)
	}
	return nil
}

// Get returns a live entry or common.ErrNotFound. Expired entries are treated
// as misses without being removed.
func (r *SQLiteRepository) Get(ctx context.Context, table, key string) (*models.CacheEntry, error) {
	query := `SELECT payload, cached_at, expires_at FROM cache_entries WHERE table_name = ? AND key = ?`
	row := r.db.QueryRowContext(ctx, query, table, key)

	var payload string
	var cachedAt, expiresAt int64
	err := row.Scan(&payload, &cachedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	entry := &models.CacheEntry{
		TableName: table,
		Key:       key,
		Payload:   []byte(payload),
		CachedAt:  time.UnixMilli(cachedAt),
		ExpiresAt: time.UnixMilli(expiresAt),
	}
	if entry.Expired(r.now()) {
		return nil, common.ErrNotFound
	}
	return entry, nil
}

// PurgeExpired removes stale entries for a table.
func (r *SQLiteRepository) PurgeExpired(ctx context.Context, table string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE table_name = ? AND expires_at <= ?`, table, r.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}
