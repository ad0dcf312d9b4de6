package projects

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
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `local_id, server_id, portfolio_id, title, description, tags, image_urls, position, sync_status, sync_error, deleted, last_modified`

func scanProject(scan func(dest ...any) error) (*models.Project, error) {
	p := &models.Project{}
	var tags, imageURLs string
	var deleted int
	var lastModified int64
	err := scan(&p.LocalID, &p.ServerID, &p.PortfolioID, &p.Data.Title, &p.Data.Description,
		&tags, &imageURLs, &p.Position, &p.SyncStatus, &p.SyncError, &deleted, &lastModified)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Data.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal([]byte(imageURLs), &p.Data.ImageURLs); err != nil {
		return nil, fmt.Errorf("failed to decode image urls: %w", err)
	}
	p.Deleted = deleted != 0
	p.LastModified = time.UnixMilli(lastModified)
	return p, nil
}

func encodeList(v []string) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateOrUpdate upserts a project by local_id, preserving a stored server_id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, p *models.Project) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, err)
	}

	tags, err := encodeList(p.Data.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	imageURLs, err := encodeList(p.Data.ImageURLs)
	if err != nil {
		return fmt.Errorf("failed to encode image urls: %w", err)
	}

	query := `INSERT INTO projects (` + selectColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				server_id = CASE WHEN projects.server_id = '' THEN excluded.server_id ELSE projects.server_id END,
				portfolio_id = excluded.portfolio_id,
				title = excluded.title,
				description = excluded.description,
				tags = excluded.tags,
				image_urls = excluded.image_urls,
				position = excluded.position,
				sync_status = excluded.sync_status,
				sync_error = excluded.sync_error,
				deleted = excluded.deleted,
				last_modified = excluded.last_modified
	`
	_, err = r.db.ExecContext(ctx, query,
		p.LocalID, p.ServerID, p.PortfolioID, p.Data.Title, p.Data.Description, tags, imageURLs,
		p.Position, p.SyncStatus, p.SyncError, boolToInt(p.Deleted), p.LastModified.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}
	return nil
}

// GetByLocalID returns a single project snapshot.
func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects WHERE local_id = ?`
	row := r.db.QueryRowContext(ctx, query, localID)

	p, err := scanProject(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return p, nil
}

// ListBySyncStatus lists non-deleted projects in the given sync state.
func (r *SQLiteRepository) ListBySyncStatus(ctx context.Context, status models.SyncStatus) ([]*models.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects WHERE sync_status = ? AND deleted = 0 ORDER BY last_modified`
	return r.list(ctx, query, string(status))
}

// ListByPortfolioID lists children of a parent id in display order.
func (r *SQLiteRepository) ListByPortfolioID(ctx context.Context, portfolioID string) ([]*models.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects WHERE portfolio_id = ? AND deleted = 0 ORDER BY position`
	return r.list(ctx, query, portfolioID)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, arg any) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
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

// ReassignParent rewrites the parent reference on every child of oldID and
// resets them to pending so the project phase picks them up again, even if
// they had already synced under the old reference.
func (r *SQLiteRepository) ReassignParent(ctx context.Context, oldID, newID string) (int64, error) {
	query := `UPDATE projects SET portfolio_id = ?, sync_status = ?, sync_error = '' WHERE portfolio_id = ?`
	res, err := r.db.ExecContext(ctx, query, newID, models.SyncStatusPending, oldID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign parent: %w", err)
	}
	return res.RowsAffected()
}

// SetServerID assigns the backend identifier exactly once.
func (r *SQLiteRepository) SetServerID(ctx context.Context, localID, serverID string) error {
	query := `UPDATE projects SET server_id = ? WHERE local_id = ? AND (server_id = '' OR server_id = ?)`
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
	query := `UPDATE projects SET sync_status = ?, sync_error = ? WHERE local_id = ?`
	_, err := r.db.ExecContext(ctx, query, status, syncError, localID)
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	return nil
}

// MarkDeleted soft-deletes a project, leaving a tombstone for the remote delete.
func (r *SQLiteRepository) MarkDeleted(ctx context.Context, localID string) error {
	query := `UPDATE projects SET deleted = 1 WHERE local_id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query, localID)
	if err != nil {
		return fmt.Errorf("failed to mark project deleted: %w", err)
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

// Delete removes a project row outright.
func (r *SQLiteRepository) Delete(ctx context.Context, localID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE local_id = ?`, localID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
