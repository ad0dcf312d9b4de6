package queue

import (
	"context"
	"database/sql"
	"fmt"
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
CREATE TABLE sync_queue (
  id         TEXT PRIMARY KEY,
  action     TEXT NOT NULL,
  table_name TEXT NOT NULL,
  payload    TEXT NOT NULL DEFAULT '{}',
  created_at INTEGER NOT NULL,
  retries    INTEGER NOT NULL DEFAULT 0,
  status     TEXT NOT NULL DEFAULT 'pending',
  last_error TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)

	return db
}

func TestEnqueue_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	item := models.NewSyncQueueItem(models.ActionDelete, "portfolios", []byte(`{"id":"srv-1"}`))
	require.NoError(t, r.Enqueue(ctx, item))

	got, err := r.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionDelete, got.Action)
	assert.Equal(t, "portfolios", got.TableName)
	assert.JSONEq(t, `{"id":"srv-1"}`, string(got.Payload))
	assert.Equal(t, 0, got.Retries)
	assert.Equal(t, models.SyncStatusPending, got.Status)
}

func TestEnqueue_RejectsInvalid(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	item := models.NewSyncQueueItem(models.QueueAction("frobnicate"), "portfolios", nil)
	err := r.Enqueue(context.Background(), item)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestListPending_OldestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	newer := models.NewSyncQueueItem(models.ActionDelete, "projects", []byte(`{}`))
	older := models.NewSyncQueueItem(models.ActionDelete, "portfolios", []byte(`{}`))
	older.CreatedAt = newer.CreatedAt.Add(-time.Minute)

	require.NoError(t, r.Enqueue(ctx, newer))
	require.NoError(t, r.Enqueue(ctx, older))

	got, err := r.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, older.ID, got[0].ID)
	assert.Equal(t, newer.ID, got[1].ID)
}

func TestRecordFailure_CapsAtMaxRetries(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	item := models.NewSyncQueueItem(models.ActionDelete, "portfolios", []byte(`{}`))
	require.NoError(t, r.Enqueue(ctx, item))

	for i := 1; i < models.MaxQueueRetries; i++ {
		require.NoError(t, r.RecordFailure(ctx, item.ID, fmt.Sprintf("attempt %d", i)))

		got, err := r.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, i, got.Retries)
		assert.Equal(t, models.SyncStatusPending, got.Status, "still pending before the cap")
	}

	require.NoError(t, r.RecordFailure(ctx, item.ID, "final"))

	got, err := r.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MaxQueueRetries, got.Retries)
	assert.Equal(t, models.SyncStatusFailed, got.Status)
	assert.Equal(t, "final", got.LastError)
	assert.True(t, got.Exhausted())

	pending, err := r.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCountPending(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	n, err := r.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.Enqueue(ctx, models.NewSyncQueueItem(models.ActionDelete, "portfolios", []byte(`{}`))))
	require.NoError(t, r.Enqueue(ctx, models.NewSyncQueueItem(models.ActionUpdate, "projects", []byte(`{}`))))

	n, err = r.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRemove(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	item := models.NewSyncQueueItem(models.ActionDelete, "portfolios", []byte(`{}`))
	require.NoError(t, r.Enqueue(ctx, item))
	require.NoError(t, r.Remove(ctx, item.ID))

	_, err := r.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
