// Package models defines the synchronizable entity types stored in the local
// store: portfolios, projects, images, generic queue items and cache entries.
//
// Every synchronizable entity shares the same base shape: a client-generated
// LocalID assigned exactly once at creation, an optional backend-assigned
// ServerID that never changes once set, a SyncStatus, and a LastModified
// timestamp.
package models

import "fmt"

// SyncStatus is the lifecycle state of a synchronizable entity.
type SyncStatus string

const (
	SyncStatusPending  SyncStatus = "pending"
	SyncStatusSyncing  SyncStatus = "syncing"
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusConflict SyncStatus = "conflict"
	SyncStatusFailed   SyncStatus = "failed"
)

// Valid reports whether s is one of the known sync states.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusPending, SyncStatusSyncing, SyncStatusSynced, SyncStatusConflict, SyncStatusFailed:
		return true
	}
	return false
}

// UploadStatus is the lifecycle state of an image binary, independent of the
// owning entity's SyncStatus so uploads can be retried on their own.
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusUploaded  UploadStatus = "uploaded"
	UploadStatusFailed    UploadStatus = "failed"
)

// Valid reports whether u is one of the known upload states.
func (u UploadStatus) Valid() bool {
	switch u {
	case UploadStatusPending, UploadStatusUploading, UploadStatusUploaded, UploadStatusFailed:
		return true
	}
	return false
}

// QueueAction is the mutation kind carried by a generic sync queue item.
type QueueAction string

const (
	ActionCreate QueueAction = "create"
	ActionUpdate QueueAction = "update"
	ActionDelete QueueAction = "delete"
)

// Valid reports whether a is one of the known actions.
func (a QueueAction) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

func requireNonEmpty(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	return nil
}
