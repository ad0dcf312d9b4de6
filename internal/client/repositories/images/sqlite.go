package images

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

const selectColumns = `local_id, project_id, mime_type, original, compressed, thumbnail, original_size, compressed_size, width, height, upload_status, remote_url, sync_status, sync_error, last_modified`

func scanImage(scan func(dest ...any) error) (*models.Image, error) {
	img := &models.Image{}
	var lastModified int64
	err := scan(&img.LocalID, &img.ProjectID, &img.MimeType, &img.Original, &img.Compressed,
		&img.Thumbnail, &img.OriginalSize, &img.CompressedSize, &img.Width, &img.Height,
		&img.UploadStatus, &img.RemoteURL, &img.SyncStatus, &img.SyncError, &lastModified)
	if err != nil {
		return nil, err
	}
	img.LastModified = time.UnixMilli(lastModified)
	return img, nil
}

// CreateOrUpdate upserts an image by local_id.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, img *models.Image) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, err)
	}

	query := `INSERT INTO images (` + selectColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(local_id) DO UPDATE SET
				project_id = excluded.project_id,
				mime_type = excluded.mime_type,
				original = excluded.original,
				compressed = excluded.compressed,
				thumbnail = excluded.thumbnail,
				original_size = excluded.original_size,
				compressed_size = excluded.compressed_size,
				width = excluded.width,
				height = excluded.height,
				upload_status = excluded.upload_status,
				remote_url = excluded.remote_url,
				sync_status = excluded.sync_status,
				sync_error = excluded.sync_error,
				last_modified = excluded.last_modified
	`
	_, err := r.db.ExecContext(ctx, query,
		img.LocalID, img.ProjectID, img.MimeType, img.Original, img.Compressed, img.Thumbnail,
		img.OriginalSize, img.CompressedSize, img.Width, img.Height,
		img.UploadStatus, img.RemoteURL, img.SyncStatus, img.SyncError, img.LastModified.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert image: %w", err)
	}
	return nil
}

// GetByLocalID returns a single image snapshot.
func (r *SQLiteRepository) GetByLocalID(ctx context.Context, localID string) (*models.Image, error) {
	query := `SELECT ` + selectColumns + ` FROM images WHERE local_id = ?`
	row := r.db.QueryRowContext(ctx, query, localID)

	img, err := scanImage(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return img, nil
}

// ListByUploadStatus lists images in the given upload state.
func (r *SQLiteRepository) ListByUploadStatus(ctx context.Context, status models.UploadStatus) ([]*models.Image, error) {
	query := `SELECT ` + selectColumns + ` FROM images WHERE upload_status = ? ORDER BY last_modified`
	return r.list(ctx, query, string(status))
}

// ListByProjectID lists images owned by a project.
func (r *SQLiteRepository) ListByProjectID(ctx context.Context, projectID string) ([]*models.Image, error) {
	query := `SELECT ` + selectColumns + ` FROM images WHERE project_id = ? ORDER BY last_modified`
	return r.list(ctx, query, projectID)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, arg any) ([]*models.Image, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	var result []*models.Image
	for rows.Next() {
		img, err := scanImage(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateUploadStatus sets the upload state and, when non-empty, the remote URL.
func (r *SQLiteRepository) UpdateUploadStatus(ctx context.Context, localID string, status models.UploadStatus, remoteURL string) error {
	query := `UPDATE images SET upload_status = ?, remote_url = CASE WHEN ? = '' THEN remote_url ELSE ? END WHERE local_id = ?`
	_, err := r.db.ExecContext(ctx, query, status, remoteURL, remoteURL, localID)
	if err != nil {
		return fmt.Errorf("failed to update upload status: %w", err)
	}
	return nil
}

// UpdateSyncStatus sets the entity-level sync state.
func (r *SQLiteRepository) UpdateSyncStatus(ctx context.Context, localID string, status models.SyncStatus, syncError string) error {
	query := `UPDATE images SET sync_status = ?, sync_error = ? WHERE local_id = ?`
	_, err := r.db.ExecContext(ctx, query, status, syncError, localID)
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	return nil
}

// Delete removes an image row outright.
func (r *SQLiteRepository) Delete(ctx context.Context, localID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE local_id = ?`, localID)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
