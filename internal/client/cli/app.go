// Package cli wires the Creatuno client together: configuration, the local
// store, the backend and object-storage collaborators, the sync engine and
// its triggers.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/bobdavies/creatuno/internal/client/api"
	"github.com/bobdavies/creatuno/internal/client/config"
	"github.com/bobdavies/creatuno/internal/client/imaging"
	"github.com/bobdavies/creatuno/internal/client/services"
	"github.com/bobdavies/creatuno/internal/client/storage"
	"github.com/bobdavies/creatuno/internal/client/store"
	"github.com/bobdavies/creatuno/internal/client/syncer"
	"github.com/bobdavies/creatuno/internal/filex"
	"github.com/bobdavies/creatuno/internal/logging"
	"github.com/bobdavies/creatuno/internal/netx"

	_ "modernc.org/sqlite"
)

// App owns the wired components for one client instance.
type App struct {
	config *config.Config
	store  *store.Store
	log    logging.Logger

	Portfolios *services.PortfolioService
	Projects   *services.ProjectService
	Images     *services.ImageService
	Cache      *services.CacheService
	Syncer     *syncer.Syncer
	Triggers   *syncer.Triggers
}

// NewApp builds a client from configuration.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewDefault(slog.LevelInfo)

	dataDir, err := filex.EnsureSubDir("data")
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, filepath.Join(dataDir, c.DatabasePath))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	backend := api.NewHTTPClient(c.BackendURL)

	objects, err := buildStorage(ctx, c)
	if err != nil {
		st.Close()
		return nil, err
	}

	checker := netx.NewChecker(c.BackendURL)
	network := func(ctx context.Context) syncer.NetworkState {
		return syncer.NetworkState{
			Online: checker.Online(ctx),
			Type:   syncer.ConnectionType(c.ConnectionType),
		}
	}
	prefs := syncer.Preferences{UnmeteredOnly: c.UnmeteredOnly}

	engine := syncer.New(st.Repos, backend, objects, network, prefs, logger)

	return &App{
		config:     c,
		store:      st,
		log:        logger,
		Portfolios: services.NewPortfolioService(st),
		Projects:   services.NewProjectService(st),
		Images:     services.NewImageService(st.Repos.Images, imaging.Options{}),
		Cache:      services.NewCacheService(st.Repos.Cache),
		Syncer:     engine,
		Triggers:   syncer.NewTriggers(engine, c.StartupSyncDelay, c.OnlineCheckInterval),
	}, nil
}

func buildStorage(ctx context.Context, c *config.Config) (storage.ObjectStorage, error) {
	switch c.StorageBackend {
	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Region:       c.S3Region,
			Bucket:       c.S3Bucket,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			BaseEndpoint: c.S3BaseEndpoint,
			PublicURL:    c.StoragePublicURL,
		})
	case "http":
		return storage.NewHTTPStorage(c.StorageUploadURL, c.StoragePublicURL), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

// Run starts the sync triggers and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	a.Syncer.Subscribe(func(st syncer.Status) {
		a.log.Debug(ctx, "sync status",
			"state", st.State, "pending", st.PendingCount, "lastError", st.LastError)
	})

	a.Triggers.Start(ctx)
}

// Close releases the local store.
func (a *App) Close() error {
	return a.store.Close()
}
