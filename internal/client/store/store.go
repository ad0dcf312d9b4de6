// Package store opens the embedded SQLite database backing the local store,
// applies migrations, and bundles the per-entity repositories.
//
// The store guarantees atomicity per individual record. Callers needing a few
// statements to stand or fall together use WithTx; everything else tolerates
// interleaved partial writes across records.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/bobdavies/creatuno/internal/client/migrations"
	"github.com/bobdavies/creatuno/internal/client/repositories/cache"
	"github.com/bobdavies/creatuno/internal/client/repositories/images"
	"github.com/bobdavies/creatuno/internal/client/repositories/portfolios"
	"github.com/bobdavies/creatuno/internal/client/repositories/projects"
	"github.com/bobdavies/creatuno/internal/client/repositories/queue"
	"github.com/bobdavies/creatuno/internal/dbx"
)

// Repositories bundles the per-entity repositories sharing one database.
type Repositories struct {
	Portfolios portfolios.Repository
	Projects   projects.Repository
	Images     images.Repository
	Queue      queue.Repository
	Cache      cache.Repository
}

// Store owns the database handle and its repositories.
type Store struct {
	DB    *sql.DB
	Repos *Repositories
}

// RunMigrations applies all embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (or creates) the database at dsn, runs migrations and returns
// the ready-to-use store. The caller must have registered a sqlite driver,
// typically via a blank import of modernc.org/sqlite.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer, and an in-memory database exists per
	// connection; one pooled connection keeps both correct.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{DB: db, Repos: newRepositories(db)}, nil
}

func newRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Portfolios: portfolios.NewSQLiteRepository(db),
		Projects:   projects.NewSQLiteRepository(db),
		Images:     images.NewSQLiteRepository(db),
		Queue:      queue.NewSQLiteRepository(db),
		Cache:      cache.NewSQLiteRepository(db),
	}
}

// WithTx runs fn with repositories bound to a single transaction, committing
// on success and rolling back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newRepositories(tx))
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}
