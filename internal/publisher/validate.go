package publisher

import (
	"airdate/internal/catalog"
	"airdate/internal/language"
)

// ValidateEpisode checks whether an episode meets the publication
// requirements: portrait and landscape thumbnails in the primary language
// and a playable content URL for that language. The returned error is a
// *ValidationError naming every missing requirement.
func ValidateEpisode(episode *catalog.Episode, assets []catalog.Asset) error {
	if episode == nil {
		return ErrNotFound
	}

	var missing []string

	if !hasThumbnail(assets, episode.LanguagePrimary, catalog.VariantPortrait) {
		missing = append(missing, "portrait thumbnail ("+episode.LanguagePrimary+")")
	}
	if !hasThumbnail(assets, episode.LanguagePrimary, catalog.VariantLandscape) {
		missing = append(missing, "landscape thumbnail ("+episode.LanguagePrimary+")")
	}
	if episode.ContentURLs[episode.LanguagePrimary] == "" {
		missing = append(missing, "content URL ("+episode.LanguagePrimary+")")
	}

	if len(missing) > 0 {
		return &ValidationError{EpisodeID: episode.ID, Missing: missing}
	}
	return nil
}

func hasThumbnail(assets []catalog.Asset, lang string, variant catalog.Variant) bool {
	for _, asset := range assets {
		if asset.AssetType == catalog.AssetThumbnail &&
			asset.Variant == variant &&
			language.Equal(asset.Language, lang) {
			return true
		}
	}
	return false
}

// seriesHasPosters reports whether a series carries both poster variants in
// its primary language. Promotion treats a missing poster as a soft failure,
// so this only gates the series transition, never the episode.
func seriesHasPosters(assets []catalog.Asset, lang string) bool {
	var portrait, landscape bool
	for _, asset := range assets {
		if asset.AssetType != catalog.AssetPoster || !language.Equal(asset.Language, lang) {
			continue
		}
		switch asset.Variant {
		case catalog.VariantPortrait:
			portrait = true
		case catalog.VariantLandscape:
			landscape = true
		}
	}
	return portrait && landscape
}
