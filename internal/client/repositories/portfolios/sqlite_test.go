package portfolios

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE portfolios (
  local_id      TEXT PRIMARY KEY,
  server_id     TEXT NOT NULL DEFAULT '',
  owner_id      TEXT NOT NULL,
  title         TEXT NOT NULL,
  description   TEXT NOT NULL DEFAULT '',
  slug          TEXT NOT NULL DEFAULT '',
  public        INTEGER NOT NULL DEFAULT 0,
  sync_status   TEXT NOT NULL DEFAULT 'pending',
  sync_error    TEXT NOT NULL DEFAULT '',
  deleted       INTEGER NOT NULL DEFAULT 0,
  last_modified INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestCreateOrUpdate_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := models.NewPortfolio("user-1", models.PortfolioData{Title: "Paintings", Slug: "paintings"})
	require.NoError(t, r.CreateOrUpdate(ctx, p))

	got, err := r.GetByLocalID(ctx, p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, "Paintings", got.Data.Title)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)

	// Upsert by the same local id.
	p.Data.Title = "Oil paintings"
	p.Data.Public = true
	require.NoError(t, r.CreateOrUpdate(ctx, p))

	got, err = r.GetByLocalID(ctx, p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, "Oil paintings", got.Data.Title)
	assert.True(t, got.Data.Public)
}

func TestCreateOrUpdate_NeverOverwritesServerID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := models.NewPortfolio("user-1", models.PortfolioData{Title: "Paintings"})
	require.NoError(t, r.CreateOrUpdate(ctx, p))
	require.NoError(t, r.SetServerID(ctx, p.LocalID, "srv-1"))

	// A stale snapshot without a server id must not clear the stored one.
	p.ServerID = ""
	require.NoError(t, r.CreateOrUpdate(ctx, p))

	got, err := r.GetByLocalID(ctx, p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", got.ServerID)
}

func TestSetServerID_Immutable(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := models.NewPortfolio("user-1", models.PortfolioData{Title: "Paintings"})
	require.NoError(t, r.CreateOrUpdate(ctx, p))

	require.NoError(t, r.SetServerID(ctx, p.LocalID, "srv-1"))
	// Re-assigning the same id is idempotent.
	require.NoError(t, r.SetServerID(ctx, p.LocalID, "srv-1"))
	// A different id is rejected.
	err := r.SetServerID(ctx, p.LocalID, "srv-2")
	assert.ErrorIs(t, err, common.ErrServerIDImmutable)

	got, err := r.GetByLocalID(ctx, p.LocalID)
	require.NoError(t, err)
	assert.Equal(t, "srv-1", got.ServerID)
}

func TestGetByLocalID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByLocalID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListBySyncStatus(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	older := models.NewPortfolio("user-1", models.PortfolioData{Title: "A"})
	older.LastModified = time.Now().Add(-time.Hour)
	newer := models.NewPortfolio("user-1", models.PortfolioData{Title: "B"})
	synced := models.NewPortfolio("user-1", models.PortfolioData{Title: "C"})
	synced.SyncStatus = models.SyncStatusSynced

	for _, p := range []*models.Portfolio{newer, older, synced} {
		require.NoError(t, r.CreateOrUpdate(ctx, p))
	}

	pending, err := r.ListBySyncStatus(ctx, models.SyncStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "A", pending[0].Data.Title, "ordered by last_modified")
	assert.Equal(t, "B", pending[1].Data.Title)
}

func TestListByOwner_ExcludesDeleted(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	mine := models.NewPortfolio("user-1", models.PortfolioData{Title: "Mine"})
	theirs := models.NewPortfolio("user-2", models.PortfolioData{Title: "Theirs"})
	gone := models.NewPortfolio("user-1", models.PortfolioData{Title: "Gone"})

	for _, p := range []*models.Portfolio{mine, theirs, gone} {
		require.NoError(t, r.CreateOrUpdate(ctx, p))
	}
	require.NoError(t, r.MarkDeleted(ctx, gone.LocalID))

	got, err := r.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mine", got[0].Data.Title)
}

func TestMarkDeleted_RequiresExistingRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	err := r.MarkDeleted(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_RemovesRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	p := models.NewPortfolio("user-1", models.PortfolioData{Title: "Temp"})
	require.NoError(t, r.CreateOrUpdate(ctx, p))
	require.NoError(t, r.Delete(ctx, p.LocalID))

	_, err := r.GetByLocalID(ctx, p.LocalID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
