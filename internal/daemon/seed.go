package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"airdate/internal/catalog"
	"airdate/internal/logging"
)

// SeedResult reports what the demo seed created.
type SeedResult struct {
	Series   int
	Seasons  int
	Episodes int
}

// seedCatalog loads a small Telugu demo lineup: one fully publishable series
// with an episode scheduled two minutes out, and one bare draft series with
// no assets so validation failures are easy to reproduce.
func seedCatalog(ctx context.Context, store *catalog.Store, logger *slog.Logger) (SeedResult, error) {
	var result SeedResult

	chaiLove, err := store.CreateSeries(ctx, catalog.SeriesParams{
		Title:              "Chai Lo Oka Love Story",
		Description:        "A tender Telugu short series about unexpected love brewed over evening chai.",
		LanguagePrimary:    "te",
		LanguagesAvailable: []string{"te", "en"},
	})
	if err != nil {
		return result, fmt.Errorf("seed series: %w", err)
	}
	result.Series++

	for _, variant := range []catalog.Variant{catalog.VariantPortrait, catalog.VariantLandscape} {
		if _, err := store.AddSeriesAsset(ctx, chaiLove.ID, catalog.Asset{
			Language:  "te",
			Variant:   variant,
			AssetType: catalog.AssetPoster,
			URL:       "https://images.pexels.com/photos/3617500/pexels-photo-3617500.jpeg",
		}); err != nil {
			return result, fmt.Errorf("seed series poster: %w", err)
		}
	}

	lastBus, err := store.CreateSeries(ctx, catalog.SeriesParams{
		Title:              "Last Bus Stop",
		Description:        "A thriller that unfolds during late-night bus rides and quiet conversations.",
		LanguagePrimary:    "te",
		LanguagesAvailable: []string{"te"},
	})
	if err != nil {
		return result, fmt.Errorf("seed series: %w", err)
	}
	result.Series++

	chaiSeason, err := store.CreateSeason(ctx, chaiLove.ID, 1, "Season 1")
	if err != nil {
		return result, fmt.Errorf("seed season: %w", err)
	}
	result.Seasons++
	if _, err := store.CreateSeason(ctx, lastBus.ID, 1, "Season 1"); err != nil {
		return result, fmt.Errorf("seed season: %w", err)
	}
	result.Seasons++

	episodes := []struct {
		number     int
		title      string
		durationMs int64
		isPaid     bool
		languages  []string
		urls       map[string]string
	}{
		{1, "First Sip", 120_000, false, []string{"te", "en"}, map[string]string{
			"te": "https://example.com/chai/ep1-te.mp4",
			"en": "https://example.com/chai/ep1-en.mp4",
		}},
		{2, "Silent Glance", 115_000, false, []string{"te"}, map[string]string{
			"te": "https://example.com/chai/ep2-te.mp4",
		}},
		{3, "Unspoken Words", 125_000, true, []string{"te"}, map[string]string{
			"te": "https://example.com/chai/ep3-te.mp4",
		}},
	}

	var created []*catalog.Episode
	for _, seed := range episodes {
		episode, err := store.CreateEpisode(ctx, catalog.EpisodeParams{
			SeasonID:           chaiSeason.ID,
			EpisodeNumber:      seed.number,
			Title:              seed.title,
			ContentType:        catalog.ContentVideo,
			DurationMs:         seed.durationMs,
			IsPaid:             seed.isPaid,
			LanguagePrimary:    "te",
			LanguagesAvailable: seed.languages,
			ContentURLs:        seed.urls,
		})
		if err != nil {
			return result, fmt.Errorf("seed episode %q: %w", seed.title, err)
		}
		result.Episodes++

		for _, variant := range []catalog.Variant{catalog.VariantPortrait, catalog.VariantLandscape} {
			if _, err := store.AddEpisodeAsset(ctx, episode.ID, catalog.Asset{
				Language:  "te",
				Variant:   variant,
				AssetType: catalog.AssetThumbnail,
				URL:       "https://images.pexels.com/photos/1525041/pexels-photo-1525041.jpeg",
			}); err != nil {
				return result, fmt.Errorf("seed thumbnail: %w", err)
			}
		}
		created = append(created, episode)
	}

	// The whole lineup is scheduled so the publishing loop does the actual
	// status transitions. The first two are already due; the last lands in
	// about two minutes so a running daemon visibly picks it up.
	now := time.Now().UTC()
	schedule := []time.Time{
		now.Add(-2 * time.Minute),
		now.Add(-1 * time.Minute),
		now.Add(2 * time.Minute),
	}
	for i, episode := range created {
		if err := store.ScheduleEpisode(ctx, episode.ID, schedule[i]); err != nil {
			return result, fmt.Errorf("seed schedule: %w", err)
		}
	}

	logger.Info("demo catalog seeded",
		logging.Int("series", result.Series),
		logging.Int("seasons", result.Seasons),
		logging.Int("episodes", result.Episodes),
	)
	return result, nil
}
