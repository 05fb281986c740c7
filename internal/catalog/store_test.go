package catalog_test

import (
	"context"
	"testing"
	"time"

	"airdate/internal/catalog"
	"airdate/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series, err := store.CreateSeries(ctx, catalog.SeriesParams{
		Title:              "Chai Tales",
		LanguagePrimary:    "te",
		LanguagesAvailable: []string{"te", "en"},
	})
	if err != nil {
		t.Fatalf("CreateSeries failed: %v", err)
	}
	if series.ID == "" {
		t.Fatal("expected series ID to be assigned")
	}
	if series.Status != catalog.StatusDraft {
		t.Fatalf("expected new series to be draft, got %s", series.Status)
	}

	fetched, err := store.GetSeries(ctx, series.ID)
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Chai Tales" {
		t.Fatalf("unexpected fetched series: %#v", fetched)
	}
	if len(fetched.LanguagesAvailable) != 2 {
		t.Fatalf("expected 2 available languages, got %v", fetched.LanguagesAvailable)
	}
}

func TestCreateSeriesRequiresTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.CreateSeries(context.Background(), catalog.SeriesParams{LanguagePrimary: "te"}); err == nil {
		t.Fatal("expected error when title missing")
	}
}

func TestEpisodeRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)

	episode, err := store.CreateEpisode(ctx, catalog.EpisodeParams{
		SeasonID:        season.ID,
		EpisodeNumber:   1,
		Title:           "The First Cup",
		ContentType:     catalog.ContentVideo,
		DurationMs:      120_000,
		IsPaid:          true,
		LanguagePrimary: "te",
		ContentURLs:     map[string]string{"te": "https://cdn.example.com/ep1.m3u8"},
	})
	if err != nil {
		t.Fatalf("CreateEpisode failed: %v", err)
	}
	if episode.SeriesID != series.ID {
		t.Fatalf("expected series id %s resolved through season, got %s", series.ID, episode.SeriesID)
	}
	if episode.Status != catalog.StatusDraft {
		t.Fatalf("expected new episode to be draft, got %s", episode.Status)
	}
	if !episode.IsPaid {
		t.Fatal("expected paid flag to survive round trip")
	}
	if episode.ContentURLs["te"] == "" {
		t.Fatal("expected content URL map to survive round trip")
	}
	if episode.PublishAt != nil || episode.PublishedAt != nil {
		t.Fatal("expected fresh episode to carry no publish timestamps")
	}
}

func TestScheduleAndDueEpisodes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)

	early := testsupport.NewEpisode(t, store, season.ID, 1, "te")
	late := testsupport.NewEpisode(t, store, season.ID, 2, "te")
	future := testsupport.NewEpisode(t, store, season.ID, 3, "te")

	now := time.Now().UTC()
	if err := store.ScheduleEpisode(ctx, early.ID, now.Add(-2*time.Hour)); err != nil {
		t.Fatalf("ScheduleEpisode early: %v", err)
	}
	if err := store.ScheduleEpisode(ctx, late.ID, now.Add(-1*time.Hour)); err != nil {
		t.Fatalf("ScheduleEpisode late: %v", err)
	}
	if err := store.ScheduleEpisode(ctx, future.ID, now.Add(1*time.Hour)); err != nil {
		t.Fatalf("ScheduleEpisode future: %v", err)
	}

	due, err := store.DueEpisodes(ctx, now)
	if err != nil {
		t.Fatalf("DueEpisodes: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due episodes, got %d", len(due))
	}
	if due[0].ID != early.ID || due[1].ID != late.ID {
		t.Fatalf("expected due episodes ordered by publish time, got %s,%s", due[0].ID, due[1].ID)
	}
}

func TestScheduleMissingEpisodeFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.ScheduleEpisode(context.Background(), "nope", time.Now()); err == nil {
		t.Fatal("expected error when episode does not exist")
	}
}

func TestArchiveClearsPublishAt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	episode := testsupport.NewEpisode(t, store, season.ID, 1, "te")

	if err := store.ScheduleEpisode(ctx, episode.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}
	if err := store.ArchiveEpisode(ctx, episode.ID); err != nil {
		t.Fatalf("ArchiveEpisode: %v", err)
	}

	archived, err := store.GetEpisode(ctx, episode.ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if archived.Status != catalog.StatusArchived {
		t.Fatalf("expected archived status, got %s", archived.Status)
	}
	if archived.PublishAt != nil {
		t.Fatal("expected publish_at cleared on archive")
	}

	due, err := store.DueEpisodes(ctx, time.Now())
	if err != nil {
		t.Fatalf("DueEpisodes: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected no due episodes after archive, got %d", len(due))
	}
}

func TestListEpisodesSupportsStatusFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)

	a := testsupport.NewEpisode(t, store, season.ID, 1, "te")
	b := testsupport.NewEpisode(t, store, season.ID, 2, "te")
	if err := store.ScheduleEpisode(ctx, b.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}

	all, err := store.ListEpisodes(ctx)
	if err != nil {
		t.Fatalf("ListEpisodes: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(all))
	}

	drafts, err := store.ListEpisodes(ctx, catalog.StatusDraft)
	if err != nil {
		t.Fatalf("Filtered list failed: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != a.ID {
		t.Fatalf("unexpected filtered result: %#v", drafts)
	}
}

func TestEpisodeAssets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	episode := testsupport.NewEpisode(t, store, season.ID, 1, "te")

	testsupport.AddThumbnails(t, store, episode.ID, "te")

	assets, err := store.EpisodeAssets(ctx, episode.ID)
	if err != nil {
		t.Fatalf("EpisodeAssets: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	variants := map[catalog.Variant]bool{}
	for _, asset := range assets {
		if asset.AssetType != catalog.AssetThumbnail {
			t.Fatalf("expected thumbnail asset, got %s", asset.AssetType)
		}
		variants[asset.Variant] = true
	}
	if !variants[catalog.VariantPortrait] || !variants[catalog.VariantLandscape] {
		t.Fatalf("expected both thumbnail variants, got %v", variants)
	}
}

func TestWithTxPublishesAtomically(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	episode := testsupport.NewEpisode(t, store, season.ID, 1, "te")

	now := time.Now().UTC()
	if err := store.ScheduleEpisode(ctx, episode.ID, now.Add(-time.Minute)); err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}

	err := store.WithTx(ctx, func(tx *catalog.Tx) error {
		fetched, err := tx.GetEpisodeForPublish(ctx, episode.ID, now)
		if err != nil {
			return err
		}
		if fetched == nil {
			t.Fatal("expected due episode inside transaction")
		}
		if err := tx.MarkEpisodePublished(ctx, episode.ID, now); err != nil {
			return err
		}
		count, err := tx.CountPublishedEpisodes(ctx, series.ID)
		if err != nil {
			return err
		}
		if count != 1 {
			t.Fatalf("expected in-transaction publish to be visible, got count %d", count)
		}
		return tx.MarkSeriesPublished(ctx, series.ID, now)
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	published, err := store.GetEpisode(ctx, episode.ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if published.Status != catalog.StatusPublished {
		t.Fatalf("expected published episode, got %s", published.Status)
	}
	if published.PublishAt != nil {
		t.Fatal("expected publish_at cleared after publication")
	}
	if published.PublishedAt == nil {
		t.Fatal("expected published_at stamped")
	}

	promoted, err := store.GetSeries(ctx, series.ID)
	if err != nil {
		t.Fatalf("GetSeries: %v", err)
	}
	if promoted.Status != catalog.StatusPublished || promoted.PublishedAt == nil {
		t.Fatalf("expected promoted series, got %#v", promoted)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	episode := testsupport.NewEpisode(t, store, season.ID, 1, "te")

	now := time.Now().UTC()
	if err := store.ScheduleEpisode(ctx, episode.ID, now.Add(-time.Minute)); err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}

	sentinel := context.Canceled
	err := store.WithTx(ctx, func(tx *catalog.Tx) error {
		if err := tx.MarkEpisodePublished(ctx, episode.ID, now); err != nil {
			return err
		}
		return sentinel
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	unchanged, err := store.GetEpisode(ctx, episode.ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if unchanged.Status != catalog.StatusScheduled {
		t.Fatalf("expected rollback to leave episode scheduled, got %s", unchanged.Status)
	}
	if unchanged.PublishAt == nil {
		t.Fatal("expected publish_at preserved after rollback")
	}
}

func TestGetEpisodeForPublishSkipsStaleRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	episode := testsupport.NewEpisode(t, store, season.ID, 1, "te")

	now := time.Now().UTC()
	if err := store.ScheduleEpisode(ctx, episode.ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}

	err := store.WithTx(ctx, func(tx *catalog.Tx) error {
		fetched, err := tx.GetEpisodeForPublish(ctx, episode.ID, now)
		if err != nil {
			return err
		}
		if fetched != nil {
			t.Fatal("expected future-scheduled episode to be skipped")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
}

func TestMarkEpisodePublishedPreservesFirstTimestamp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	episode := testsupport.NewEpisode(t, store, season.ID, 1, "te")

	first := time.Now().UTC().Add(-24 * time.Hour)
	if err := store.WithTx(ctx, func(tx *catalog.Tx) error {
		return tx.MarkEpisodePublished(ctx, episode.ID, first)
	}); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	if err := store.WithTx(ctx, func(tx *catalog.Tx) error {
		return tx.MarkEpisodePublished(ctx, episode.ID, time.Now().UTC())
	}); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	published, err := store.GetEpisode(ctx, episode.ID)
	if err != nil {
		t.Fatalf("GetEpisode: %v", err)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(first) {
		t.Fatalf("expected original published_at preserved, got %v", published.PublishedAt)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	series := testsupport.NewSeries(t, store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)

	testsupport.NewEpisode(t, store, season.ID, 1, "te")
	overdue := testsupport.NewEpisode(t, store, season.ID, 2, "te")
	if err := store.ScheduleEpisode(ctx, overdue.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("ScheduleEpisode: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Episodes[catalog.StatusDraft] != 1 || stats.Episodes[catalog.StatusScheduled] != 1 {
		t.Fatalf("unexpected episode stats: %v", stats.Episodes)
	}
	if stats.Series[catalog.StatusDraft] != 1 {
		t.Fatalf("unexpected series stats: %v", stats.Series)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Episodes != 2 || health.Scheduled != 1 || health.Overdue != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestCheckHealthReportsTables(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable {
		t.Fatalf("expected readable database, got %#v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("expected no missing tables, got %v", health.MissingTables)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
}
