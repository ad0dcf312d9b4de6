package portfolios

import (
	"context"

	"github.com/bobdavies/creatuno/internal/client/models"
)

// Repository describes storage and query operations for Portfolio entities.
// Implementations are backed by the local SQLite database.
type Repository interface {
	// CreateOrUpdate upserts a portfolio by LocalID. The write is idempotent
	// and atomic for the single record. A ServerID already present in the
	// store is never overwritten.
	CreateOrUpdate(ctx context.Context, p *models.Portfolio) error

	// GetByLocalID returns the current snapshot, or common.ErrNotFound.
	GetByLocalID(ctx context.Context, localID string) (*models.Portfolio, error)

	// ListBySyncStatus returns all non-deleted portfolios in the given state.
	ListBySyncStatus(ctx context.Context, status models.SyncStatus) ([]*models.Portfolio, error)

	// ListByOwner returns all non-deleted portfolios owned by a user.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Portfolio, error)

	// SetServerID records the backend-assigned identifier. It fails if a
	// different ServerID is already set.
	SetServerID(ctx context.Context, localID, serverID string) error

	// UpdateSyncStatus sets the sync state and error message for one record.
	UpdateSyncStatus(ctx context.Context, localID string, status models.SyncStatus, syncError string) error

	// MarkDeleted tombstones a previously-synced portfolio pending remote delete.
	MarkDeleted(ctx context.Context, localID string) error

	// Delete removes a record outright. Used for entities that never synced.
	Delete(ctx context.Context, localID string) error
}
