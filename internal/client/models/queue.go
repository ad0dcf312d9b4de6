package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxQueueRetries is the attempt cap for generic queue items. An item that
// fails this many times is marked failed and is not picked up again.
const MaxQueueRetries = 3

// SyncQueueItem is the generic fallback for mutations not covered by the
// dedicated portfolio/project/image pipelines, e.g. remote deletes.
type SyncQueueItem struct {
	ID        string
	Action    QueueAction
	TableName string
	Payload   json.RawMessage
	CreatedAt time.Time
	Retries   int
	Status    SyncStatus
	LastError string
}

// NewSyncQueueItem creates a pending queue item for the given mutation.
func NewSyncQueueItem(action QueueAction, tableName string, payload json.RawMessage) *SyncQueueItem {
	return &SyncQueueItem{
		ID:        uuid.NewString(),
		Action:    action,
		TableName: tableName,
		Payload:   payload,
		CreatedAt: time.Now(),
		Status:    SyncStatusPending,
	}
}

// Exhausted reports whether the item has used up its retry budget.
func (q *SyncQueueItem) Exhausted() bool { return q.Retries >= MaxQueueRetries }

// Validate checks the invariants enforced at the local store boundary.
func (q *SyncQueueItem) Validate() error {
	if err := requireNonEmpty("id", q.ID); err != nil {
		return err
	}
	if err := requireNonEmpty("table name", q.TableName); err != nil {
		return err
	}
	if !q.Action.Valid() {
		return fmt.Errorf("invalid action %q", q.Action)
	}
	if !q.Status.Valid() {
		return fmt.Errorf("invalid status %q", q.Status)
	}
	return nil
}
