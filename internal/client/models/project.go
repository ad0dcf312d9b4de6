package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ProjectData is the user-editable payload of a project. ImageURLs holds the
// resolved remote URLs of uploaded images, in display order; it is populated
// by the sync engine before the project itself is sent.
type ProjectData struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
}

// Project is a child entity of a portfolio. PortfolioID references the parent
// by its LocalID before the parent has synced and by its ServerID after;
// reconciliation rewrites the field when the parent obtains a ServerID.
type Project struct {
	LocalID      string
	ServerID     string
	PortfolioID  string
	Data         ProjectData
	Position     int
	SyncStatus   SyncStatus
	SyncError    string
	Deleted      bool
	LastModified time.Time
}

// NewProject creates a pending project referencing the given parent id.
func NewProject(portfolioID string, data ProjectData) *Project {
	return &Project{
		LocalID:      uuid.NewString(),
		PortfolioID:  portfolioID,
		Data:         data,
		SyncStatus:   SyncStatusPending,
		LastModified: time.Now(),
	}
}

// Synced reports whether the project has ever completed a backend create.
func (p *Project) Synced() bool { return p.ServerID != "" }

// Validate checks the invariants enforced at the local store boundary.
func (p *Project) Validate() error {
	if err := requireNonEmpty("local id", p.LocalID); err != nil {
		return err
	}
	if err := requireNonEmpty("portfolio id", p.PortfolioID); err != nil {
		return err
	}
	if err := requireNonEmpty("title", p.Data.Title); err != nil {
		return err
	}
	if !p.SyncStatus.Valid() {
		return fmt.Errorf("invalid sync status %q", p.SyncStatus)
	}
	return nil
}
