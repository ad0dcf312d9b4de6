// Package services implements the local write paths: UI-triggered creates,
// edits and deletes land here, are validated, and are written into the local
// store tagged pending for the sync engine to pick up.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/client/store"
)

// PortfolioService manages portfolio entities in the local store.
type PortfolioService struct {
	store *store.Store
}

// NewPortfolioService returns a PortfolioService over the given store.
func NewPortfolioService(st *store.Store) *PortfolioService {
	return &PortfolioService{store: st}
}

// Create stores a new pending portfolio and returns it.
func (s *PortfolioService) Create(ctx context.Context, ownerID string, data models.PortfolioData) (*models.Portfolio, error) {
	p := models.NewPortfolio(ownerID, data)
	if err := s.store.Repos.Portfolios.CreateOrUpdate(ctx, p); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return p, nil
}

// Update applies a local edit. Any edit resets the sync state to pending,
// including on an entity that had already synced.
func (s *PortfolioService) Update(ctx context.Context, localID string, data models.PortfolioData) (*models.Portfolio, error) {
	p, err := s.store.Repos.Portfolios.GetByLocalID(ctx, localID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving portfolio: %w", err)
	}

	p.Data = data
	p.SyncStatus = models.SyncStatusPending
	p.SyncError = ""
	p.LastModified = time.Now()

	if err := s.store.Repos.Portfolios.CreateOrUpdate(ctx, p); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return p, nil
}

// Resubmit flips a conflicted portfolio back to pending after the user
// reviewed it. Conflicts are never retried automatically.
func (s *PortfolioService) Resubmit(ctx context.Context, localID string) error {
	p, err := s.store.Repos.Portfolios.GetByLocalID(ctx, localID)
	if err != nil {
		return fmt.Errorf("error retrieving portfolio: %w", err)
	}
	if p.SyncStatus != models.SyncStatusConflict {
		return fmt.Errorf("portfolio %s is not in conflict", localID)
	}
	return s.store.Repos.Portfolios.UpdateSyncStatus(ctx, localID, models.SyncStatusPending, "")
}

// Delete removes a portfolio. An entity that never synced is removed outright
// with no further action; a previously-synced one is tombstoned and a remote
// delete is enqueued on the generic queue, in one transaction so the
// tombstone and the queued delete stand or fall together.
func (s *PortfolioService) Delete(ctx context.Context, localID string) error {
	p, err := s.store.Repos.Portfolios.GetByLocalID(ctx, localID)
	if err != nil {
		return fmt.Errorf("error retrieving portfolio: %w", err)
	}

	if !p.Synced() {
		return s.store.Repos.Portfolios.Delete(ctx, localID)
	}

	payload, err := json.Marshal(map[string]string{"id": p.ServerID})
	if err != nil {
		return err
	}
	item := models.NewSyncQueueItem(models.ActionDelete, "portfolios", payload)

	return s.store.WithTx(ctx, func(ctx context.Context, repos *store.Repositories) error {
		if err := repos.Portfolios.MarkDeleted(ctx, localID); err != nil {
			return err
		}
		if err := repos.Queue.Enqueue(ctx, item); err != nil {
			return fmt.Errorf("error enqueuing remote delete: %w", err)
		}
		return nil
	})
}

// Get returns one portfolio snapshot.
func (s *PortfolioService) Get(ctx context.Context, localID string) (*models.Portfolio, error) {
	return s.store.Repos.Portfolios.GetByLocalID(ctx, localID)
}

// List returns the user's portfolios.
func (s *PortfolioService) List(ctx context.Context, ownerID string) ([]*models.Portfolio, error) {
	return s.store.Repos.Portfolios.ListByOwner(ctx, ownerID)
}

// Projects returns the portfolio's children in display order.
func (s *PortfolioService) Projects(ctx context.Context, localID string) ([]*models.Project, error) {
	p, err := s.store.Repos.Portfolios.GetByLocalID(ctx, localID)
	if err != nil {
		return nil, err
	}
	return s.store.Repos.Projects.ListByPortfolioID(ctx, p.RemoteID())
}
