package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PortfolioData is the user-editable payload of a portfolio. It is a closed
// struct rather than a free-form map so the local store can validate shapes
// at its boundary.
type PortfolioData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Public      bool   `json:"public"`
}

// Portfolio is the parent entity owning an ordered set of projects. Projects
// are not embedded; they are looked up by parent id.
type Portfolio struct {
	LocalID      string
	ServerID     string // empty until the first successful create
	OwnerID      string
	Data         PortfolioData
	SyncStatus   SyncStatus
	SyncError    string
	Deleted      bool
	LastModified time.Time
}

// NewPortfolio creates a pending portfolio with a fresh LocalID.
func NewPortfolio(ownerID string, data PortfolioData) *Portfolio {
	return &Portfolio{
		LocalID:      uuid.NewString(),
		OwnerID:      ownerID,
		Data:         data,
		SyncStatus:   SyncStatusPending,
		LastModified: time.Now(),
	}
}

// Synced reports whether the portfolio has ever completed a backend create.
func (p *Portfolio) Synced() bool { return p.ServerID != "" }

// RemoteID returns the identifier children should reference: the ServerID
// once assigned, the LocalID before that.
func (p *Portfolio) RemoteID() string {
	if p.ServerID != "" {
		return p.ServerID
	}
	return p.LocalID
}

// Validate checks the invariants enforced at the local store boundary.
func (p *Portfolio) Validate() error {
	if err := requireNonEmpty("local id", p.LocalID); err != nil {
		return err
	}
	if err := requireNonEmpty("owner id", p.OwnerID); err != nil {
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
