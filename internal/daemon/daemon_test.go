package daemon_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"airdate/internal/catalog"
	"airdate/internal/daemon"
	"airdate/internal/logging"
	"airdate/internal/publisher"
	"airdate/internal/testsupport"
)

func newDaemon(t *testing.T) (*daemon.Daemon, *catalog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	mgr := publisher.NewManager(cfg, store, logger)
	d, err := daemon.New(cfg, store, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})
	return d, store
}

func TestDaemonStartStop(t *testing.T) {
	d, _ := newDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.CatalogDBPath == "" || status.LockFilePath == "" {
		t.Fatalf("expected paths in status, got %#v", status)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	time.Sleep(50 * time.Millisecond)
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonCatalogOperations(t *testing.T) {
	d, store := newDaemon(t)
	ctx := context.Background()

	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	episode := testsupport.NewEpisode(t, store, season.ID, 1, "te")
	testsupport.AddThumbnails(t, store, episode.ID, "te")

	if err := d.ScheduleEpisode(ctx, episode.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}
	episodes, err := d.ListEpisodes(ctx, []catalog.Status{catalog.StatusScheduled})
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(episodes) != 1 {
		t.Fatalf("expected 1 scheduled episode, got %d", len(episodes))
	}

	if err := d.UnscheduleEpisode(ctx, episode.ID); err != nil {
		t.Fatalf("UnscheduleEpisode: %v", err)
	}
	refreshed, err := store.GetEpisode(ctx, episode.ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if refreshed.Status != catalog.StatusDraft || refreshed.PublishAt != nil {
		t.Fatalf("expected draft without publish time, got %#v", refreshed)
	}

	if err := d.PublishNow(ctx, episode.ID); err != nil {
		t.Fatalf("PublishNow: %v", err)
	}
	stats, err := d.CatalogStats(ctx)
	if err != nil {
		t.Fatalf("CatalogStats: %v", err)
	}
	if stats.Episodes[catalog.StatusPublished] != 1 {
		t.Fatalf("expected 1 published episode, got %v", stats.Episodes)
	}

	if err := d.ArchiveEpisode(ctx, episode.ID); err != nil {
		t.Fatalf("ArchiveEpisode: %v", err)
	}
}

func TestDaemonPublishNowRequiresEpisodeID(t *testing.T) {
	d, _ := newDaemon(t)
	if err := d.PublishNow(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank episode id")
	}
}

func TestDaemonPublishNowUnknownEpisode(t *testing.T) {
	d, _ := newDaemon(t)
	err := d.PublishNow(context.Background(), "no-such-episode")
	if !errors.Is(err, publisher.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDaemonSeedPopulatesCatalog(t *testing.T) {
	d, _ := newDaemon(t)
	ctx := context.Background()

	result, err := d.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if result.Series != 2 || result.Seasons != 2 || result.Episodes != 3 {
		t.Fatalf("unexpected seed result: %#v", result)
	}

	episodes, err := d.ListEpisodes(ctx, []catalog.Status{catalog.StatusScheduled})
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(episodes) != 3 {
		t.Fatalf("expected 3 scheduled episodes, got %d", len(episodes))
	}
}

func TestDaemonTestNotificationWithoutTopic(t *testing.T) {
	d, _ := newDaemon(t)

	sent, message, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if sent {
		t.Fatal("expected notification to be skipped without topic")
	}
	if message == "" {
		t.Fatal("expected explanatory message")
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	first, err := daemon.New(cfg, store, logger, publisher.NewManager(cfg, store, logger))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { first.Close() })

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	second, err := daemon.New(cfg, store, logger, publisher.NewManager(cfg, store, logger))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail to acquire lock")
	}

	first.Stop()
}
