package queue

import (
	"context"

	"github.com/bobdavies/creatuno/internal/client/models"
)

// Repository describes storage for generic sync queue items, the fallback
// channel for mutations not covered by the dedicated entity pipelines.
type Repository interface {
	// Enqueue stores a new queue item.
	Enqueue(ctx context.Context, item *models.SyncQueueItem) error

	// GetByID returns one item, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.SyncQueueItem, error)

	// ListPending returns pending items in arrival order.
	ListPending(ctx context.Context) ([]*models.SyncQueueItem, error)

	// CountPending returns how many items are still pending.
	CountPending(ctx context.Context) (int, error)

	// RecordFailure increments the retry counter and stores the error. Once
	// the counter reaches the cap the item is marked failed (terminal).
	RecordFailure(ctx context.Context, id string, cause string) error

	// Remove deletes an item that reached a terminal success state.
	Remove(ctx context.Context, id string) error
}
