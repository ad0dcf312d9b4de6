package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPortfolio_AssignsLocalIDOnce(t *testing.T) {
	p := NewPortfolio("user-1", PortfolioData{Title: "Paintings"})
	require.NotEmpty(t, p.LocalID)
	assert.Equal(t, SyncStatusPending, p.SyncStatus)
	assert.Empty(t, p.ServerID)

	q := NewPortfolio("user-1", PortfolioData{Title: "Paintings"})
	assert.NotEqual(t, p.LocalID, q.LocalID)
}

func TestPortfolio_RemoteID(t *testing.T) {
	p := NewPortfolio("user-1", PortfolioData{Title: "Paintings"})
	assert.Equal(t, p.LocalID, p.RemoteID())

	p.ServerID = "srv-42"
	assert.Equal(t, "srv-42", p.RemoteID())
	assert.True(t, p.Synced())
}

func TestPortfolio_Validate(t *testing.T) {
	p := NewPortfolio("user-1", PortfolioData{Title: "Paintings"})
	require.NoError(t, p.Validate())

	p.Data.Title = ""
	assert.Error(t, p.Validate())

	p.Data.Title = "Paintings"
	p.SyncStatus = SyncStatus("bogus")
	assert.Error(t, p.Validate())
}

func TestProject_Validate(t *testing.T) {
	j := NewProject("portfolio-1", ProjectData{Title: "Mural"})
	require.NoError(t, j.Validate())

	j.PortfolioID = ""
	assert.Error(t, j.Validate())
}

func TestImage_Validate(t *testing.T) {
	img := NewImage("project-1", "image/jpeg")
	assert.Error(t, img.Validate(), "compressed binary is required")

	img.Compressed = []byte{0xff, 0xd8}
	require.NoError(t, img.Validate())
	assert.Equal(t, "images/"+img.LocalID, img.StorageKey())
}

func TestSyncQueueItem_Exhausted(t *testing.T) {
	item := NewSyncQueueItem(ActionDelete, "portfolios", []byte(`{"id":"x"}`))
	require.NoError(t, item.Validate())

	assert.False(t, item.Exhausted())
	item.Retries = MaxQueueRetries
	assert.True(t, item.Exhausted())
}

func TestCacheEntry_Expired(t *testing.T) {
	now := time.Now()
	e := &CacheEntry{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, e.Expired(now))
	assert.True(t, e.Expired(now.Add(time.Minute)))
	assert.True(t, e.Expired(now.Add(2*time.Minute)))
}
