// Package api implements the HTTP client for the remote backend's sync
// endpoints: the entity-specific portfolio/project upserts and the generic
// sync endpoint used by queue items.
package api

import (
	"context"
	"encoding/json"

	"github.com/bobdavies/creatuno/internal/client/models"
)

// SyncRequest is the wire shape of the generic sync endpoint.
type SyncRequest struct {
	Action    models.QueueAction `json:"action"`
	Table     string             `json:"table"`
	Data      json.RawMessage    `json:"data"`
	ID        string             `json:"id,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

// SyncResponse is the generic endpoint's reply. Server-assigned fields for
// creates arrive in ID.
type SyncResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// RemotePortfolio is the canonical server record for a portfolio. LocalID is
// echoed back so retried creates stay idempotent.
type RemotePortfolio struct {
	ID      string `json:"id"`
	LocalID string `json:"localId"`
}

// RemoteProject is the canonical server record for a project.
type RemoteProject struct {
	ID      string `json:"id"`
	LocalID string `json:"localId"`
}

// Backend is the remote-backend collaborator consumed by the sync engine.
type Backend interface {
	// SyncPortfolio upserts a portfolio and returns the canonical server
	// record carrying the backend-assigned identifier.
	SyncPortfolio(ctx context.Context, p *models.Portfolio) (*RemotePortfolio, error)

	// SyncProject upserts a project. The project's PortfolioID must already
	// reference the parent's server identifier.
	SyncProject(ctx context.Context, p *models.Project) (*RemoteProject, error)

	// Execute runs one generic sync request.
	Execute(ctx context.Context, req *SyncRequest) (*SyncResponse, error)
}
