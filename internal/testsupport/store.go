package testsupport

import (
	"context"
	"testing"

	"airdate/internal/catalog"
	"airdate/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewSeries creates a draft series for tests using the provided store.
func NewSeries(t testing.TB, store *catalog.Store, title, lang string) *catalog.Series {
	t.Helper()

	series, err := store.CreateSeries(context.Background(), catalog.SeriesParams{
		Title:              title,
		LanguagePrimary:    lang,
		LanguagesAvailable: []string{lang},
	})
	if err != nil {
		t.Fatalf("store.CreateSeries: %v", err)
	}
	return series
}

// NewSeason creates a season for tests using the provided store.
func NewSeason(t testing.TB, store *catalog.Store, seriesID string, number int) *catalog.Season {
	t.Helper()

	season, err := store.CreateSeason(context.Background(), seriesID, number, "")
	if err != nil {
		t.Fatalf("store.CreateSeason: %v", err)
	}
	return season
}

// NewEpisode creates a draft episode for tests using the provided store. The
// episode carries a playable content URL in its primary language so it is
// publishable once thumbnails are attached.
func NewEpisode(t testing.TB, store *catalog.Store, seasonID string, number int, lang string) *catalog.Episode {
	t.Helper()

	episode, err := store.CreateEpisode(context.Background(), catalog.EpisodeParams{
		SeasonID:           seasonID,
		EpisodeNumber:      number,
		Title:              "Episode",
		ContentType:        catalog.ContentVideo,
		DurationMs:         90_000,
		LanguagePrimary:    lang,
		LanguagesAvailable: []string{lang},
		ContentURLs:        map[string]string{lang: "https://cdn.example.com/video.m3u8"},
	})
	if err != nil {
		t.Fatalf("store.CreateEpisode: %v", err)
	}
	return episode
}

// AddThumbnails attaches portrait and landscape thumbnails in the given
// language, which satisfies the episode artwork requirement for publication.
func AddThumbnails(t testing.TB, store *catalog.Store, episodeID, lang string) {
	t.Helper()

	for _, variant := range []catalog.Variant{catalog.VariantPortrait, catalog.VariantLandscape} {
		_, err := store.AddEpisodeAsset(context.Background(), episodeID, catalog.Asset{
			Language:  lang,
			Variant:   variant,
			AssetType: catalog.AssetThumbnail,
			URL:       "https://cdn.example.com/thumb.jpg",
		})
		if err != nil {
			t.Fatalf("store.AddEpisodeAsset: %v", err)
		}
	}
}

// AddPosters attaches portrait and landscape posters to a series in the
// given language.
func AddPosters(t testing.TB, store *catalog.Store, seriesID, lang string) {
	t.Helper()

	for _, variant := range []catalog.Variant{catalog.VariantPortrait, catalog.VariantLandscape} {
		_, err := store.AddSeriesAsset(context.Background(), seriesID, catalog.Asset{
			Language:  lang,
			Variant:   variant,
			AssetType: catalog.AssetPoster,
			URL:       "https://cdn.example.com/poster.jpg",
		})
		if err != nil {
			t.Fatalf("store.AddSeriesAsset: %v", err)
		}
	}
}
