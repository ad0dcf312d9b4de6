package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/common"
	"github.com/bobdavies/creatuno/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, action, table_name, payload, created_at, retries, status, last_error`

func scanItem(scan func(dest ...any) error) (*models.SyncQueueItem, error) {
	item := &models.SyncQueueItem{}
	var payload string
	var createdAt int64
	err := scan(&item.ID, &item.Action, &item.TableName, &payload, &createdAt,
		&item.Retries, &item.Status, &item.LastError)
	if err != nil {
		return nil, err
	}
	item.Payload = []byte(payload)
	item.CreatedAt = time.UnixMilli(createdAt)
	return item, nil
}

// Enqueue stores a new queue item.
func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.SyncQueueItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, err)
	}

	query := `INSERT INTO sync_queue (` + selectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Action, item.TableName, string(item.Payload), item.CreatedAt.UnixMilli(),
		item.Retries, item.Status, item.LastError)
	if err != nil {
		return fmt.Errorf("failed to enqueue item: %w", err)
	}
	return nil
}

// GetByID returns one queue item.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.SyncQueueItem, error) {
	query := `SELECT ` + selectColumns + ` FROM sync_queue WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	item, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return item, nil
}

// ListPending returns pending items oldest first.
func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.SyncQueueItem, error) {
	query := `SELECT ` + selectColumns + ` FROM sync_queue WHERE status = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, models.SyncStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue items: %w", err)
	}
	defer rows.Close()

	var result []*models.SyncQueueItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountPending returns the number of pending items.
func (r *SQLiteRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue WHERE status = ?`, models.SyncStatusPending)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending items: %w", err)
	}
	return n, nil
}

// RecordFailure bumps the retry counter; at the cap the item flips to failed
// and stays there until an operator intervenes.
func (r *SQLiteRepository) RecordFailure(ctx context.Context, id string, cause string) error {
	query := `UPDATE sync_queue
			SET retries = retries + 1,
				last_error = ?,
				status = CASE WHEN retries + 1 >= ? THEN ? ELSE ? END
			WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		cause, models.MaxQueueRetries, models.SyncStatusFailed, models.SyncStatusPending, id)
	if err != nil {
		return fmt.Errorf("failed to record failure: %w", err)
	}
	return nil
}

// Remove deletes an item after terminal success.
func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove queue item: %w", err)
	}
	return nil
}
