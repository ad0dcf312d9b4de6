package projects

import (
	"context"

	"github.com/bobdavies/creatuno/internal/client/models"
)

// Repository describes storage and query operations for Project entities.
type Repository interface {
	// CreateOrUpdate upserts a project by LocalID. A ServerID already present
	// in the store is never overwritten.
	CreateOrUpdate(ctx context.Context, p *models.Project) error

	// GetByLocalID returns the current snapshot, or common.ErrNotFound.
	GetByLocalID(ctx context.Context, localID string) (*models.Project, error)

	// ListBySyncStatus returns all non-deleted projects in the given state.
	ListBySyncStatus(ctx context.Context, status models.SyncStatus) ([]*models.Project, error)

	// ListByPortfolioID returns all non-deleted children of a parent id,
	// ordered by position.
	ListByPortfolioID(ctx context.Context, portfolioID string) ([]*models.Project, error)

	// ReassignParent rewrites portfolio_id from oldID to newID on every child
	// and forces their sync state back to pending, in one statement. This is
	// the cascade step run right after a parent obtains its ServerID.
	ReassignParent(ctx context.Context, oldID, newID string) (int64, error)

	// SetServerID records the backend-assigned identifier. It fails if a
	// different ServerID is already set.
	SetServerID(ctx context.Context, localID, serverID string) error

	// UpdateSyncStatus sets the sync state and error message for one record.
	UpdateSyncStatus(ctx context.Context, localID string, status models.SyncStatus, syncError string) error

	// MarkDeleted tombstones a previously-synced project pending remote delete.
	MarkDeleted(ctx context.Context, localID string) error

	// Delete removes a record outright. Used for entities that never synced.
	Delete(ctx context.Context, localID string) error
}
