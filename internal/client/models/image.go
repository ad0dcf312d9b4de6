package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Image stores the original binary alongside its compressed variant and
// thumbnail, produced by the imaging pipeline before the row is written.
// UploadStatus tracks the object-storage upload independently of SyncStatus
// so a failed upload can be retried without touching entity sync.
type Image struct {
	LocalID        string
	ProjectID      string
	MimeType       string
	Original       []byte
	Compressed     []byte
	Thumbnail      []byte
	OriginalSize   int64
	CompressedSize int64
	Width          int
	Height         int
	UploadStatus   UploadStatus
	RemoteURL      string
	SyncStatus     SyncStatus
	SyncError      string
	LastModified   time.Time
}

// NewImage creates a pending image owned by the given project.
func NewImage(projectID, mimeType string) *Image {
	return &Image{
		LocalID:      uuid.NewString(),
		ProjectID:    projectID,
		MimeType:     mimeType,
		UploadStatus: UploadStatusPending,
		SyncStatus:   SyncStatusPending,
		LastModified: time.Now(),
	}
}

// StorageKey derives the object-storage key for the image from its LocalID,
// so retried uploads overwrite rather than duplicate.
func (i *Image) StorageKey() string {
	return fmt.Sprintf("images/%s", i.LocalID)
}

// Validate checks the invariants enforced at the local store boundary.
func (i *Image) Validate() error {
	if err := requireNonEmpty("local id", i.LocalID); err != nil {
		return err
	}
	if err := requireNonEmpty("mime type", i.MimeType); err != nil {
		return err
	}
	if len(i.Compressed) == 0 {
		return fmt.Errorf("compressed binary must not be empty")
	}
	if !i.UploadStatus.Valid() {
		return fmt.Errorf("invalid upload status %q", i.UploadStatus)
	}
	if !i.SyncStatus.Valid() {
		return fmt.Errorf("invalid sync status %q", i.SyncStatus)
	}
	return nil
}
