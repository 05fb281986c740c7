package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"airdate/internal/catalog"
	"airdate/internal/config"
	"airdate/internal/logging"
	"airdate/internal/notifications"
	"airdate/internal/publisher"
)

// Daemon coordinates the publishing loop and enforces single-instance
// execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *catalog.Store
	publisher *publisher.Manager
	logPath   string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	Publisher     publisher.StatusSummary
	CatalogDBPath string
	LockFilePath  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, mgr *publisher.Manager) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || mgr == nil {
		return nil, errors.New("daemon requires config, store, logger, and publisher manager")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "airdated.lock")
	return &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		publisher: mgr,
		logPath:   filepath.Join(cfg.Paths.LogDir, "airdate.log"),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Start launches the publishing loop and acquires the daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another airdate daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.publisher.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start publisher: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("airdate daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.publisher.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("airdate daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// RunPassNow executes a publication pass immediately, outside the timer.
func (d *Daemon) RunPassNow(ctx context.Context) (publisher.PassResult, error) {
	return d.publisher.RunPass(ctx)
}

// PublishNow publishes an episode immediately after validation.
func (d *Daemon) PublishNow(ctx context.Context, episodeID string) error {
	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return errors.New("episode id is required")
	}
	return d.publisher.PublishNow(ctx, episodeID)
}

// ScheduleEpisode validates an episode and sets its future publish time.
func (d *Daemon) ScheduleEpisode(ctx context.Context, episodeID string, publishAt time.Time) error {
	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return errors.New("episode id is required")
	}
	return d.publisher.Schedule(ctx, episodeID, publishAt)
}

// UnscheduleEpisode returns a scheduled episode to draft.
func (d *Daemon) UnscheduleEpisode(ctx context.Context, episodeID string) error {
	if d.store == nil {
		return errors.New("catalog store unavailable")
	}
	return d.store.UnscheduleEpisode(ctx, strings.TrimSpace(episodeID))
}

// ArchiveEpisode retires an episode from the catalog surface.
func (d *Daemon) ArchiveEpisode(ctx context.Context, episodeID string) error {
	if d.store == nil {
		return errors.New("catalog store unavailable")
	}
	return d.store.ArchiveEpisode(ctx, strings.TrimSpace(episodeID))
}

// ListEpisodes returns catalog episodes filtered by optional statuses.
func (d *Daemon) ListEpisodes(ctx context.Context, statuses []catalog.Status) ([]*catalog.Episode, error) {
	if d.store == nil {
		return nil, errors.New("catalog store unavailable")
	}
	if len(statuses) == 0 {
		return d.store.ListEpisodes(ctx)
	}
	return d.store.ListEpisodes(ctx, statuses...)
}

// ListSeries returns catalog series filtered by optional statuses.
func (d *Daemon) ListSeries(ctx context.Context, statuses []catalog.Status) ([]*catalog.Series, error) {
	if d.store == nil {
		return nil, errors.New("catalog store unavailable")
	}
	if len(statuses) == 0 {
		return d.store.ListSeries(ctx)
	}
	return d.store.ListSeries(ctx, statuses...)
}

// CatalogStats returns per-status episode and series counts.
func (d *Daemon) CatalogStats(ctx context.Context) (catalog.Stats, error) {
	if d.store == nil {
		return catalog.Stats{}, errors.New("catalog store unavailable")
	}
	return d.store.Stats(ctx)
}

// CatalogHealth returns aggregate catalog diagnostics.
func (d *Daemon) CatalogHealth(ctx context.Context) (catalog.HealthSummary, error) {
	if d.store == nil {
		return catalog.HealthSummary{}, errors.New("catalog store unavailable")
	}
	return d.store.Health(ctx)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (catalog.DatabaseHealth, error) {
	if d.store == nil {
		return catalog.DatabaseHealth{}, errors.New("catalog store unavailable")
	}
	return d.store.CheckHealth(ctx)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Seed populates the catalog with a small demo lineup for local development.
func (d *Daemon) Seed(ctx context.Context) (SeedResult, error) {
	if d.store == nil {
		return SeedResult{}, errors.New("catalog store unavailable")
	}
	return seedCatalog(ctx, d.store, d.logger)
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	summary := d.publisher.Status(ctx)
	return Status{
		Running:       d.running.Load(),
		Publisher:     summary,
		CatalogDBPath: d.cfg.DatabasePath(),
		LockFilePath:  d.lockPath,
	}
}
