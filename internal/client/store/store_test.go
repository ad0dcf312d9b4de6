package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdavies/creatuno/internal/client/models"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, s *Store, name string) bool {
	t.Helper()
	var n int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestOpen_RunsMigrations(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, table := range []string{"portfolios", "projects", "images", "sync_queue", "cache_entries"} {
		assert.True(t, tableExists(t, s, table), "table %s should exist", table)
	}
}

func TestOpen_RepositoriesShareOneDatabase(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	p := models.NewPortfolio("user-1", models.PortfolioData{Title: "Paintings"})
	require.NoError(t, s.Repos.Portfolios.CreateOrUpdate(ctx, p))

	j := models.NewProject(p.LocalID, models.ProjectData{Title: "Mural"})
	require.NoError(t, s.Repos.Projects.CreateOrUpdate(ctx, j))

	children, err := s.Repos.Projects.ListByPortfolioID(ctx, p.LocalID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, j.LocalID, children[0].LocalID)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// Re-applying on an up-to-date database is a no-op.
	require.NoError(t, RunMigrations(ctx, s.DB))
}
