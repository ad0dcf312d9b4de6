package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/client/store"
)

// ProjectService manages project entities in the local store.
type ProjectService struct {
	store *store.Store
}

// NewProjectService returns a ProjectService over the given store.
func NewProjectService(st *store.Store) *ProjectService {
	return &ProjectService{store: st}
}

// Create stores a new pending project under the given parent reference. The
// reference may be the parent's LocalID; reconciliation rewrites it once the
// parent syncs.
func (s *ProjectService) Create(ctx context.Context, portfolioID string, data models.ProjectData) (*models.Project, error) {
	j := models.NewProject(portfolioID, data)
	if err := s.store.Repos.Projects.CreateOrUpdate(ctx, j); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return j, nil
}

// Update applies a local edit, resetting the sync state to pending.
func (s *ProjectService) Update(ctx context.Context, localID string, data models.ProjectData) (*models.Project, error) {
	j, err := s.store.Repos.Projects.GetByLocalID(ctx, localID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving project: %w", err)
	}

	j.Data = data
	j.SyncStatus = models.SyncStatusPending
	j.SyncError = ""
	j.LastModified = time.Now()

	if err := s.store.Repos.Projects.CreateOrUpdate(ctx, j); err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	return j, nil
}

// Resubmit flips a conflicted project back to pending.
func (s *ProjectService) Resubmit(ctx context.Context, localID string) error {
	j, err := s.store.Repos.Projects.GetByLocalID(ctx, localID)
	if err != nil {
		return fmt.Errorf("error retrieving project: %w", err)
	}
	if j.SyncStatus != models.SyncStatusConflict {
		return fmt.Errorf("project %s is not in conflict", localID)
	}
	return s.store.Repos.Projects.UpdateSyncStatus(ctx, localID, models.SyncStatusPending, "")
}

// Delete removes a project, and its images, from the local store. A
// previously-synced project additionally gets a remote delete enqueued. The
// whole removal runs in one transaction.
func (s *ProjectService) Delete(ctx context.Context, localID string) error {
	j, err := s.store.Repos.Projects.GetByLocalID(ctx, localID)
	if err != nil {
		return fmt.Errorf("error retrieving project: %w", err)
	}

	var item *models.SyncQueueItem
	if j.Synced() {
		payload, err := json.Marshal(map[string]string{"id": j.ServerID})
		if err != nil {
			return err
		}
		item = models.NewSyncQueueItem(models.ActionDelete, "projects", payload)
	}

	return s.store.WithTx(ctx, func(ctx context.Context, repos *store.Repositories) error {
		imgs, err := repos.Images.ListByProjectID(ctx, localID)
		if err != nil {
			return err
		}
		for _, img := range imgs {
			if err := repos.Images.Delete(ctx, img.LocalID); err != nil {
				return err
			}
		}

		if item == nil {
			return repos.Projects.Delete(ctx, localID)
		}

		if err := repos.Projects.MarkDeleted(ctx, localID); err != nil {
			return err
		}
		if err := repos.Queue.Enqueue(ctx, item); err != nil {
			return fmt.Errorf("error enqueuing remote delete: %w", err)
		}
		return nil
	})
}

// Get returns one project snapshot.
func (s *ProjectService) Get(ctx context.Context, localID string) (*models.Project, error) {
	return s.store.Repos.Projects.GetByLocalID(ctx, localID)
}
