// Package syncer is the synchronization engine: it drains pending local
// mutations in dependency order (images, then portfolios, then projects,
// then the generic queue), reconciles locally-generated identifiers with
// backend-assigned ones, and publishes progress to subscribers.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobdavies/creatuno/internal/client/api"
	"github.com/bobdavies/creatuno/internal/client/models"
	"github.com/bobdavies/creatuno/internal/client/store"
	"github.com/bobdavies/creatuno/internal/client/storage"
	"github.com/bobdavies/creatuno/internal/common"
	"github.com/bobdavies/creatuno/internal/logging"
)

// NetworkStateProvider reports the device's current connectivity snapshot.
type NetworkStateProvider func(ctx context.Context) NetworkState

// Syncer runs complete synchronization passes. One instance owns its status
// and listener set; independent instances do not interfere.
type Syncer struct {
	repos   *store.Repositories
	backend api.Backend
	objects storage.ObjectStorage
	network NetworkStateProvider
	prefs   Preferences
	log     logging.Logger

	board *statusBoard
	now   func() time.Time
}

// New constructs a Syncer. logger may be nil.
func New(repos *store.Repositories, backend api.Backend, objects storage.ObjectStorage, network NetworkStateProvider, prefs Preferences, logger logging.Logger) *Syncer {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Syncer{
		repos:   repos,
		backend: backend,
		objects: objects,
		network: network,
		prefs:   prefs,
		log:     logger,
		board:   newStatusBoard(),
		now:     time.Now,
	}
}

// Subscribe registers a status listener and returns its unsubscribe function.
func (s *Syncer) Subscribe(fn func(Status)) func() {
	return s.board.subscribe(fn)
}

// Status returns the latest published snapshot.
func (s *Syncer) Status() Status {
	return s.board.current()
}

// PerformSync runs one complete pass. It is idempotent and safe to call from
// any trigger: a call while a pass is running is a no-op, and a call while
// the network policy denies syncing does nothing. No failure of an
// individual item aborts the pass; errors are recorded on the item and
// summarized in the published status. Panics never escape: a panicking
// collaborator is contained here, surfaced as the pass's LastError, and the
// engine returns to idle so later triggers still run.
func (s *Syncer) PerformSync(ctx context.Context) {
	if !s.board.tryStart() {
		s.log.Debug(ctx, "sync pass already running, skipping trigger")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "sync pass panicked", "panic", r)
			s.board.publish(func(st *Status) {
				st.State = StateIdle
				st.LastError = fmt.Sprintf("panic: %v", r)
			})
		}
	}()

	if !Allowed(s.network(ctx), s.prefs) {
		s.log.Debug(ctx, "sync denied by network policy")
		s.board.publish(func(st *Status) { st.State = StateIdle })
		return
	}

	pending := s.countPending(ctx)
	s.board.publish(func(st *Status) { st.PendingCount = pending })
	s.log.Info(ctx, "sync pass started", "pending", pending)

	var lastErr string
	record := func(err error) {
		if err != nil {
			lastErr = err.Error()
		}
	}

	record(s.syncImages(ctx))
	record(s.syncPortfolios(ctx))
	record(s.syncProjects(ctx))
	record(s.processQueue(ctx))

	now := s.now()
	s.board.publish(func(st *Status) {
		st.State = StateIdle
		st.PendingCount = s.countPending(ctx)
		st.LastSync = now
		st.LastError = lastErr
	})
	s.log.Info(ctx, "sync pass finished", "lastError", lastErr)
}

// countPending sums the pending categories: images awaiting upload, pending
// portfolios and projects, and generic queue items.
func (s *Syncer) countPending(ctx context.Context) int {
	total := 0
	if imgs, err := s.repos.Images.ListByUploadStatus(ctx, models.UploadStatusPending); err == nil {
		total += len(imgs)
	}
	if ps, err := s.repos.Portfolios.ListBySyncStatus(ctx, models.SyncStatusPending); err == nil {
		total += len(ps)
	}
	if js, err := s.repos.Projects.ListBySyncStatus(ctx, models.SyncStatusPending); err == nil {
		total += len(js)
	}
	if n, err := s.repos.Queue.CountPending(ctx); err == nil {
		total += n
	}
	return total
}

// syncImages uploads pending image binaries first: project payloads embed
// resolved image URLs, so images must settle before parents are sent. An
// upload failure flips UploadStatus to failed but leaves the entity's own
// sync state alone, so a later manual retry can re-attempt the upload
// independently.
func (s *Syncer) syncImages(ctx context.Context) error {
	imgs, err := s.repos.Images.ListByUploadStatus(ctx, models.UploadStatusPending)
	if err != nil {
		return err
	}

	var lastErr error
	for _, img := range imgs {
		if err := s.uploadImage(ctx, img); err != nil {
			lastErr = err
			s.log.Warn(ctx, "image upload failed", "localId", img.LocalID, "err", err)
		}
	}
	return lastErr
}

func (s *Syncer) uploadImage(ctx context.Context, img *models.Image) error {
	if err := s.repos.Images.UpdateUploadStatus(ctx, img.LocalID, models.UploadStatusUploading, ""); err != nil {
		return err
	}

	url, err := s.objects.Upload(ctx, img.StorageKey(), img.MimeType, img.Compressed)
	if err != nil {
		_ = s.repos.Images.UpdateUploadStatus(ctx, img.LocalID, models.UploadStatusFailed, "")
		return err
	}

	if err := s.repos.Images.UpdateUploadStatus(ctx, img.LocalID, models.UploadStatusUploaded, url); err != nil {
		return err
	}
	return s.repos.Images.UpdateSyncStatus(ctx, img.LocalID, models.SyncStatusSynced, "")
}

// syncPortfolios sends pending parents. Immediately after a portfolio obtains
// its ServerID, every project still referencing the portfolio's LocalID is
// rewritten to the new identifier and reset to pending, so the project phase
// of this same pass picks it up.
func (s *Syncer) syncPortfolios(ctx context.Context) error {
	portfolios, err := s.repos.Portfolios.ListBySyncStatus(ctx, models.SyncStatusPending)
	if err != nil {
		return err
	}

	var lastErr error
	for _, p := range portfolios {
		if err := s.syncPortfolio(ctx, p); err != nil {
			lastErr = err
			s.log.Warn(ctx, "portfolio sync failed", "localId", p.LocalID, "err", err)
		}
	}
	return lastErr
}

func (s *Syncer) syncPortfolio(ctx context.Context, p *models.Portfolio) error {
	if err := s.repos.Portfolios.UpdateSyncStatus(ctx, p.LocalID, models.SyncStatusSyncing, ""); err != nil {
		return err
	}

	remote, err := s.backend.SyncPortfolio(ctx, p)
	if err != nil {
		// Portfolio failures are terminal conflicts requiring explicit
		// re-submission; there is no retry counter for entities.
		_ = s.repos.Portfolios.UpdateSyncStatus(ctx, p.LocalID, models.SyncStatusConflict, err.Error())
		return err
	}

	if err := s.repos.Portfolios.SetServerID(ctx, p.LocalID, remote.ID); err != nil {
		return err
	}
	if err := s.repos.Portfolios.UpdateSyncStatus(ctx, p.LocalID, models.SyncStatusSynced, ""); err != nil {
		return err
	}

	// Cascade: children referencing the local id now point at the server id.
	n, err := s.repos.Projects.ReassignParent(ctx, p.LocalID, remote.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info(ctx, "reassigned children to server id", "portfolio", p.LocalID, "serverId", remote.ID, "children", n)
	}
	return nil
}

// syncProjects sends pending children. A project whose parent reference still
// resolves to an unsynced local identifier is silently skipped this pass; the
// cascade will reset it once the parent syncs.
func (s *Syncer) syncProjects(ctx context.Context) error {
	projects, err := s.repos.Projects.ListBySyncStatus(ctx, models.SyncStatusPending)
	if err != nil {
		return err
	}

	var lastErr error
	for _, j := range projects {
		skip, err := s.parentUnsynced(ctx, j)
		if err != nil {
			lastErr = err
			continue
		}
		if skip {
			s.log.Debug(ctx, "project skipped, parent not synced", "localId", j.LocalID)
			continue
		}
		if err := s.syncProject(ctx, j); err != nil {
			lastErr = err
			s.log.Warn(ctx, "project sync failed", "localId", j.LocalID, "err", err)
		}
	}
	return lastErr
}

// parentUnsynced reports whether the project's parent reference is still a
// local identifier without a backend-assigned counterpart. Only a confirmed
// miss means the reference is already a server identifier; any other lookup
// failure propagates so the project is retried next pass instead of being
// sent with an unresolved parent.
func (s *Syncer) parentUnsynced(ctx context.Context, j *models.Project) (bool, error) {
	parent, err := s.repos.Portfolios.GetByLocalID(ctx, j.PortfolioID)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil // not a local id; reference is already remote
	}
	if err != nil {
		return false, err
	}
	return !parent.Synced(), nil
}

func (s *Syncer) syncProject(ctx context.Context, j *models.Project) error {
	// Embed the resolved URLs of uploaded images into the payload.
	imgs, err := s.repos.Images.ListByProjectID(ctx, j.LocalID)
	if err != nil {
		return err
	}
	urls := make([]string, 0, len(imgs))
	for _, img := range imgs {
		if img.RemoteURL != "" {
			urls = append(urls, img.RemoteURL)
		}
	}
	j.Data.ImageURLs = urls

	if err := s.repos.Projects.UpdateSyncStatus(ctx, j.LocalID, models.SyncStatusSyncing, ""); err != nil {
		return err
	}

	remote, err := s.backend.SyncProject(ctx, j)
	if err != nil {
		_ = s.repos.Projects.UpdateSyncStatus(ctx, j.LocalID, models.SyncStatusConflict, err.Error())
		return err
	}

	if err := s.repos.Projects.SetServerID(ctx, j.LocalID, remote.ID); err != nil {
		return err
	}
	// Persist the embedded image URLs alongside the synced state.
	j.ServerID = remote.ID
	j.SyncStatus = models.SyncStatusSynced
	j.SyncError = ""
	return s.repos.Projects.CreateOrUpdate(ctx, j)
}

// processQueue drains the generic fallback queue one item at a time. Items
// succeed and are cleared, or fail and accumulate retries until the cap
// flips them to the terminal failed state.
func (s *Syncer) processQueue(ctx context.Context) error {
	items, err := s.repos.Queue.ListPending(ctx)
	if err != nil {
		return err
	}

	var lastErr error
	for _, item := range items {
		req := &api.SyncRequest{
			Action:    item.Action,
			Table:     item.TableName,
			Data:      item.Payload,
			ID:        item.ID,
			Timestamp: item.CreatedAt.UnixMilli(),
		}

		resp, err := s.backend.Execute(ctx, req)
		if err == nil && !resp.Success {
			err = &api.Error{StatusCode: 0, Message: resp.Message}
		}
		if err != nil {
			lastErr = err
			if rerr := s.repos.Queue.RecordFailure(ctx, item.ID, err.Error()); rerr != nil {
				lastErr = rerr
			}
			s.log.Warn(ctx, "queue item failed", "id", item.ID, "err", err)
			continue
		}

		if err := s.repos.Queue.Remove(ctx, item.ID); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
