package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"airdate/internal/catalog"
	"airdate/internal/logging"
)

// PassResult summarizes a single publication pass.
type PassResult struct {
	PassID    string
	StartedAt time.Time
	Duration  time.Duration
	Due       int
	Published int
	Skipped   int
	Failed    int
}

// RunPass executes one publication pass: select every due episode, then
// publish each inside its own transaction. A selection failure abandons the
// pass; a per-episode failure is logged and the pass moves on.
func (m *Manager) RunPass(ctx context.Context) (PassResult, error) {
	m.passMu.Lock()
	defer m.passMu.Unlock()

	passID := uuid.NewString()
	start := m.now()
	ctx = logging.WithPassID(ctx, passID)
	logger := logging.WithContext(ctx, m.logger)

	result := PassResult{PassID: passID, StartedAt: start}

	due, err := m.store.DueEpisodes(ctx, start)
	if err != nil {
		return result, fmt.Errorf("select due episodes: %w", err)
	}
	result.Due = len(due)

	if len(due) == 0 {
		result.Duration = m.now().Sub(start)
		logger.Debug("no episodes due", logging.String(logging.FieldEventType, "pass_idle"))
		return result, nil
	}

	logger.Info("publication pass started",
		logging.Int("due", len(due)),
		logging.String(logging.FieldEventType, "pass_started"),
	)

	for _, episode := range due {
		outcome, err := m.publishEpisode(ctx, episode.ID)
		episodeLogger := logger.With(
			logging.String(logging.FieldEpisodeID, episode.ID),
			logging.String(logging.FieldSeriesID, episode.SeriesID),
		)
		switch {
		case err != nil:
			result.Failed++
			episodeLogger.Error("episode publication failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "episode_publish_failed"),
				logging.String(logging.FieldErrorHint, "inspect episode assets and content URLs"),
			)
			if notifyErr := m.notifier.NotifyError(ctx, err, "episode "+episode.ID); notifyErr != nil {
				episodeLogger.Warn("error notification failed", logging.Error(notifyErr))
			}
		case outcome.skipped:
			result.Skipped++
			episodeLogger.Debug("episode no longer due; skipping",
				logging.String(logging.FieldEventType, "episode_publish_skipped"),
			)
		default:
			result.Published++
			episodeLogger.Info("episode published",
				logging.String("episode_title", outcome.episodeTitle),
				logging.Bool("series_promoted", outcome.seriesPromoted),
				logging.String(logging.FieldEventType, "episode_published"),
			)
			if notifyErr := m.notifier.NotifyEpisodePublished(ctx, outcome.seriesTitle, outcome.episodeTitle); notifyErr != nil {
				episodeLogger.Warn("publish notification failed", logging.Error(notifyErr))
			}
			if outcome.seriesPromoted {
				if notifyErr := m.notifier.NotifySeriesPublished(ctx, outcome.seriesTitle); notifyErr != nil {
					episodeLogger.Warn("series notification failed", logging.Error(notifyErr))
				}
			}
		}
	}

	result.Duration = m.now().Sub(start)
	logger.Info("publication pass finished",
		logging.Int("published", result.Published),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed),
		logging.Duration("duration", result.Duration),
		logging.String(logging.FieldEventType, "pass_finished"),
	)
	if notifyErr := m.notifier.NotifyPassSummary(ctx, result.Published, result.Failed, result.Duration); notifyErr != nil {
		logger.Warn("pass summary notification failed", logging.Error(notifyErr))
	}

	return result, nil
}

type publishOutcome struct {
	skipped        bool
	seriesPromoted bool
	seriesTitle    string
	episodeTitle   string
}

// publishEpisode runs the full publication transaction for one episode: the
// conditional re-fetch, eligibility validation, the status flip, and the
// cascading series promotion. Any error rolls the whole unit back.
func (m *Manager) publishEpisode(ctx context.Context, episodeID string) (publishOutcome, error) {
	var outcome publishOutcome
	now := m.now()

	err := m.store.WithTx(ctx, func(tx *catalog.Tx) error {
		episode, err := tx.GetEpisodeForPublish(ctx, episodeID, now)
		if err != nil {
			return err
		}
		if episode == nil {
			// Raced with a concurrent publish or reschedule. Nothing to do.
			outcome.skipped = true
			return nil
		}
		outcome.episodeTitle = episode.Title

		assets, err := tx.EpisodeAssets(ctx, episode.ID)
		if err != nil {
			return err
		}
		if err := ValidateEpisode(episode, assets); err != nil {
			return err
		}

		if err := tx.MarkEpisodePublished(ctx, episode.ID, now); err != nil {
			return err
		}

		promoted, seriesTitle, err := m.promoteSeries(ctx, tx, episode, now)
		if err != nil {
			return err
		}
		outcome.seriesPromoted = promoted
		outcome.seriesTitle = seriesTitle
		return nil
	})
	return outcome, err
}

// promoteSeries publishes the episode's parent series when it is not yet
// published. A series missing its poster pair is left unpublished with a
// warning rather than failing the episode transaction.
func (m *Manager) promoteSeries(ctx context.Context, tx *catalog.Tx, episode *catalog.Episode, now time.Time) (bool, string, error) {
	series, err := tx.GetSeries(ctx, episode.SeriesID)
	if err != nil {
		return false, "", err
	}
	if series == nil {
		return false, "", fmt.Errorf("series %s: %w", episode.SeriesID, ErrNotFound)
	}
	if series.Status == catalog.StatusPublished {
		return false, series.Title, nil
	}

	count, err := tx.CountPublishedEpisodes(ctx, series.ID)
	if err != nil {
		return false, series.Title, err
	}
	if count == 0 {
		return false, series.Title, nil
	}

	assets, err := tx.SeriesAssets(ctx, series.ID)
	if err != nil {
		return false, series.Title, err
	}
	if !seriesHasPosters(assets, series.LanguagePrimary) {
		m.seriesLogger(ctx, series).Warn("series missing poster pair; promotion deferred",
			logging.String("language", series.LanguagePrimary),
			logging.String(logging.FieldEventType, "series_promotion_deferred"),
			logging.String(logging.FieldErrorHint, "attach portrait and landscape posters"),
		)
		return false, series.Title, nil
	}

	if err := tx.MarkSeriesPublished(ctx, series.ID, now); err != nil {
		return false, series.Title, err
	}
	m.seriesLogger(ctx, series).Info("series published",
		logging.String("series_title", series.Title),
		logging.String(logging.FieldEventType, "series_published"),
	)
	return true, series.Title, nil
}

func (m *Manager) seriesLogger(ctx context.Context, series *catalog.Series) *slog.Logger {
	return logging.WithContext(ctx, m.logger).With(logging.String(logging.FieldSeriesID, series.ID))
}
