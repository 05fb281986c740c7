package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Tx exposes the queries a publication transaction needs. Every method runs
// against the same underlying SQL transaction so the conditional re-fetch,
// episode update, and series promotion commit or roll back as one unit.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a transaction. A nil return commits; any error (or a
// panic) rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	if err := fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// GetEpisodeForPublish re-fetches an episode only if it is still scheduled
// and due as of now. A concurrent publish or reschedule makes this return
// (nil, nil), which callers treat as a silent no-op.
func (t *Tx) GetEpisodeForPublish(ctx context.Context, id string, now time.Time) (*Episode, error) {
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT `+episodeColumns+` FROM `+episodeTables+
			` WHERE e.id = ? AND e.status = ? AND e.publish_at IS NOT NULL AND e.publish_at <= ?`,
		id,
		StatusScheduled,
		now.UTC().Format(time.RFC3339Nano),
	)
	episode, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch episode for publish: %w", err)
	}
	return episode, nil
}

// GetEpisode fetches an episode inside the transaction.
func (t *Tx) GetEpisode(ctx context.Context, id string) (*Episode, error) {
	return getEpisode(ctx, t.tx, id)
}

// EpisodeAssets returns an episode's assets inside the transaction.
func (t *Tx) EpisodeAssets(ctx context.Context, episodeID string) ([]Asset, error) {
	return episodeAssets(ctx, t.tx, episodeID)
}

// MarkEpisodePublished transitions an episode to published, clears its
// pending publish time, and stamps published_at only when it has never been
// set before.
func (t *Tx) MarkEpisodePublished(ctx context.Context, id string, now time.Time) error {
	timestamp := now.UTC().Format(time.RFC3339Nano)
	res, err := t.tx.ExecContext(
		ctx,
		`UPDATE episodes
         SET status = ?, publish_at = NULL,
             published_at = COALESCE(published_at, ?), updated_at = ?
         WHERE id = ?`,
		StatusPublished,
		timestamp,
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark episode published: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("episode %s not found", id)
	}
	return nil
}

// GetSeries fetches a series inside the transaction.
func (t *Tx) GetSeries(ctx context.Context, id string) (*Series, error) {
	return getSeries(ctx, t.tx, id)
}

// SeriesAssets returns a series' assets inside the transaction.
func (t *Tx) SeriesAssets(ctx context.Context, seriesID string) ([]Asset, error) {
	return seriesAssets(ctx, t.tx, seriesID)
}

// CountPublishedEpisodes counts a series' published episodes inside the
// transaction, so an episode published earlier in the same transaction is
// visible to the count.
func (t *Tx) CountPublishedEpisodes(ctx context.Context, seriesID string) (int, error) {
	row := t.tx.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM episodes e
         JOIN seasons s ON s.id = e.season_id
         WHERE s.series_id = ? AND e.status = ?`,
		seriesID,
		StatusPublished,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count published episodes: %w", err)
	}
	return count, nil
}

// MarkSeriesPublished transitions a series to published, stamping
// published_at only on first publication.
func (t *Tx) MarkSeriesPublished(ctx context.Context, id string, now time.Time) error {
	timestamp := now.UTC().Format(time.RFC3339Nano)
	res, err := t.tx.ExecContext(
		ctx,
		`UPDATE series
         SET status = ?, published_at = COALESCE(published_at, ?), updated_at = ?
         WHERE id = ?`,
		StatusPublished,
		timestamp,
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark series published: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("series %s not found", id)
	}
	return nil
}
