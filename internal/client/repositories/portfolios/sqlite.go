package portfolios

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

const selectColumns = `local_id, server_id, owner_id, title, description, slug, public, sync_status, sync_error, deleted, last_modified`

func scanPortfolio(scan func(dest ...any) error) (*models.Portfolio, error) {
	p := &models.Portfolio{}
	var public, deleted int
	var lastModified int64
	err := scan(&p.LocalID, &p.ServerID, &p.OwnerID, &p.Data.Title, &p.Data.Description,
		&p.Data.Slug, &public, &p.SyncStatus, &p.SyncError, &deleted, &lastModified)
	if err != nil {
		return nil, err
	}
	p.Data.Public = public != 0
	p.Deleted = deleted != 0
	p.LastModified = time.UnixMilli(lastModified)
	return p, nil
}

// CreateOrUpdate upserts a portfolio by local_id. On conflict the payload and
// status columns are updated; server_id is only taken from the new row when
// the stored one is still empty, keeping backend identifiers immutable.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, p *models.Portfolio) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, err)
	}

	query := `INSERT INTO portfolios (` + selectColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				server_id = CASE WHEN portfolios.server_id = '' THEN excluded.server_id ELSE portfolios.server_id END,
				owner_id = excluded.owner_id,
				title = excluded.title,
				description = excluded.description,
				slug = excluded.slug,
				public = excluded.public,
				sync_status = excluded.sync_status,
				sync_error = excluded.sync_error,
				deleted = excluded.deleted,
				last_modified = excluded.last_modified
	`
	_, err := r.db.ExecContext(ctx, query,
		p.LocalID, p.ServerID, p.OwnerID, p.Data.Title, p.Data.Description, p.Data.Slug,
		boolToInt(p.Data.Public), p.SyncStatus, p.SyncError, boolToInt(p.Deleted), p.LastModified.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio: %w", err)
	}
	return nil
}

// GetByLocalID returns a single portfolio snapshot.
func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.Portfolio, error) {
	query := `SELECT ` + selectColumns + ` FROM portfolios WHERE local_id = ?`
	row := r.db.QueryRowContext(ctx, query, localID)

	p, err := scanPortfolio(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return p, nil
}

// ListBySyncStatus lists non-deleted portfolios in the given sync state.
func (r *SQLiteRepository) ListBySyncStatus(ctx context.Context, status models.SyncStatus) ([]*models.Portfolio, error) {
	query := `SELECT ` + selectColumns + ` FROM portfolios WHERE sync_status = ? AND deleted = 0 ORDER BY last_modified`
	return r.list(ctx, query, string(status))
}

// ListByOwner lists non-deleted portfolios owned by ownerID.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Portfolio, error) {
	query := `SELECT ` + selectColumns + ` FROM portfolios WHERE owner_id = ? AND deleted = 0 ORDER BY last_modified`
	return r.list(ctx, query, ownerID)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, arg any) ([]*models.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select portfolios: %w", err)
	}
	defer rows.Close()

	var result []*models.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetServerID assigns the backend identifier exactly once.
func (r *SQLiteRepository) SetServerID(ctx context.Context, localID, serverID string) error {
	query := `UPDATE portfolios SET server_id = ? WHERE local_id = ? AND (server_id = '' OR server_id = ?)`
	res, err := r.db.ExecContext(ctx, query, serverID, localID, serverID)
	if err != nil {
		return fmt.Errorf("failed to set server id: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrServerIDImmutable
	}
	return nil
}

// UpdateSyncStatus sets the sync state for one record.
func (r *SQLiteRepository) UpdateSyncStatus(ctx context.Context, localID string, status models.SyncStatus, syncError string) error {
	query := `UPDATE portfolios SET sync_status = ?, sync_error = ? WHERE local_id = ?`
	_, err := r.db.ExecContext(ctx, query, status, syncError, localID)
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	return nil
}

// MarkDeleted soft-deletes a portfolio, leaving a tombstone for the remote delete.
func (r *SQLiteRepository) MarkDeleted(ctx context.Context, localID string) error {
	query := `UPDATE portfolios SET deleted = 1 WHERE local_id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query, localID)
	if err != nil {
		return fmt.Errorf("failed to mark portfolio deleted: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a portfolio row outright.
func (r *SQLiteRepository) Delete(ctx context.Context, localID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE local_id = ?`, localID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
