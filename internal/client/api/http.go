package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/common"
)

// HTTPClient implements Backend over JSON-HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns a Backend talking to the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// portfolioPayload is the flattened create/upsert body. LocalID lets the
// backend dedupe retried creates.
type portfolioPayload struct {
	LocalID     string `json:"localId"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Public      bool   `json:"public"`
}

type projectPayload struct {
	LocalID     string   `json:"localId"`
	PortfolioID string   `json:"portfolioId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
	Position    int      `json:"position"`
}

// SyncPortfolio upserts a portfolio via the entity-specific endpoint.
func (c *HTTPClient) SyncPortfolio(ctx context.Context, p *models.Portfolio) (*RemotePortfolio, error) {
	body := portfolioPayload{
		LocalID:     p.LocalID,
		OwnerID:     p.OwnerID,
		Title:       p.Data.Title,
		Description: p.Data.Description,
		Slug:        p.Data.Slug,
		Public:      p.Data.Public,
	}
	var remote RemotePortfolio
	if err := c.post(ctx, "/api/portfolios/sync", body, &remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

// SyncProject upserts a project via the entity-specific endpoint.
func (c *HTTPClient) SyncProject(ctx context.Context, p *models.Project) (*RemoteProject, error) {
	body := projectPayload{
		LocalID:     p.LocalID,
		PortfolioID: p.PortfolioID,
		Title:       p.Data.Title,
		Description: p.Data.Description,
		Tags:        p.Data.Tags,
		ImageURLs:   p.Data.ImageURLs,
		Position:    p.Position,
	}
	var remote RemoteProject
	if err := c.post(ctx, "/api/projects/sync", body, &remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

// Execute runs one generic sync request.
func (c *HTTPClient) Execute(ctx context.Context, req *SyncRequest) (*SyncResponse, error) {
	var resp SyncResponse
	if err := c.post(ctx, "/api/sync", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends a JSON body and decodes a JSON reply, mapping failures into the
// two-way taxonomy: transport problems wrap common.ErrUnavailable, structured
// backend rejections become *Error.
func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapError turns a non-2xx reply into a structured *Error, keeping the
// human-readable message when the backend supplied one.
func (c *HTTPClient) mapError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := resp.Status
	if err := json.Unmarshal(data, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		}
	}

	return &Error{StatusCode: resp.StatusCode, Message: msg}
}
