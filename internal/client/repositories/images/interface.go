package images

import (
	"context"

	"github.com/bobdavies/creatuno/internal/client/models"
)

// Repository describes storage and query operations for Image entities.
type Repository interface {
	// CreateOrUpdate upserts an image by LocalID.
	CreateOrUpdate(ctx context.Context, img *models.Image) error

	// GetByLocalID returns the current snapshot, or common.ErrNotFound.
	GetByLocalID(ctx context.Context, localID string) (*models.Image, error)

	// ListByUploadStatus returns all images in the given upload state.
	ListByUploadStatus(ctx context.Context, status models.UploadStatus) ([]*models.Image, error)

	// ListByProjectID returns all images owned by a project.
	ListByProjectID(ctx context.Context, projectID string) ([]*models.Image, error)

	// UpdateUploadStatus sets the upload state, optionally recording the
	// resolved remote URL (pass "" to leave it unchanged).
	UpdateUploadStatus(ctx context.Context, localID string, status models.UploadStatus, remoteURL string) error

	// UpdateSyncStatus sets the entity-level sync state.
	UpdateSyncStatus(ctx context.Context, localID string, status models.SyncStatus, syncError string) error

	// Delete removes an image row outright.
	Delete(ctx context.Context, localID string) error
}
