package publisher

import (
	"context"
	"fmt"
	"time"

	"airdate/internal/catalog"
	"airdate/internal/logging"
)

// PublishNow publishes an episode immediately, bypassing its schedule but
// never its eligibility checks. Publishing an already published episode is a
// no-op.
func (m *Manager) PublishNow(ctx context.Context, episodeID string) error {
	now := m.now()
	var outcome publishOutcome

	err := m.store.WithTx(ctx, func(tx *catalog.Tx) error {
		episode, err := tx.GetEpisode(ctx, episodeID)
		if err != nil {
			return err
		}
		if episode == nil {
			return fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
		}
		if episode.Status == catalog.StatusPublished {
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
	if err != nil {
		return err
	}
	if outcome.skipped {
		return nil
	}

	m.logger.Info("episode published manually",
		logging.String(logging.FieldEpisodeID, episodeID),
		logging.String("episode_title", outcome.episodeTitle),
		logging.Bool("series_promoted", outcome.seriesPromoted),
		logging.String(logging.FieldEventType, "episode_published"),
	)
	if notifyErr := m.notifier.NotifyEpisodePublished(ctx, outcome.seriesTitle, outcome.episodeTitle); notifyErr != nil {
		m.logger.Warn("publish notification failed", logging.Error(notifyErr))
	}
	if outcome.seriesPromoted {
		if notifyErr := m.notifier.NotifySeriesPublished(ctx, outcome.seriesTitle); notifyErr != nil {
			m.logger.Warn("series notification failed", logging.Error(notifyErr))
		}
	}
	return nil
}

// Schedule validates an episode up front and sets its publish time. The
// publish time must be in the future; eligibility problems are reported at
// scheduling time so operators do not discover them when the pass fires.
func (m *Manager) Schedule(ctx context.Context, episodeID string, publishAt time.Time) error {
	if !publishAt.After(m.now()) {
		return fmt.Errorf("%w: publish time %s is not in the future", ErrBadSchedule, publishAt.UTC().Format(time.RFC3339))
	}

	episode, err := m.store.GetEpisode(ctx, episodeID)
	if err != nil {
		return err
	}
	if episode == nil {
		return fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
	}
	if episode.Status == catalog.StatusPublished {
		return fmt.Errorf("%w: episode %s is already published", ErrBadSchedule, episodeID)
	}

	assets, err := m.store.EpisodeAssets(ctx, episode.ID)
	if err != nil {
		return err
	}
	if err := ValidateEpisode(episode, assets); err != nil {
		return err
	}

	if err := m.store.ScheduleEpisode(ctx, episodeID, publishAt); err != nil {
		return err
	}
	m.logger.Info("episode scheduled",
		logging.String(logging.FieldEpisodeID, episodeID),
		logging.Time("publish_at", publishAt.UTC()),
		logging.String(logging.FieldEventType, "episode_scheduled"),
	)
	return nil
}
