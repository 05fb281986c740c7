package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateSeason inserts a season under an existing series.
func (s *Store) CreateSeason(ctx context.Context, seriesID string, seasonNumber int, title string) (*Season, error) {
	if seriesID == "" {
		return nil, errors.New("season series id is required")
	}
	if seasonNumber < 1 {
		return nil, errors.New("season number must be positive")
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO seasons (id, series_id, season_number, title) VALUES (?, ?, ?, ?)`,
		id,
		seriesID,
		seasonNumber,
		nullableString(title),
	)
	if err != nil {
		return nil, fmt.Errorf("insert season: %w", err)
	}
	return &Season{ID: id, SeriesID: seriesID, SeasonNumber: seasonNumber, Title: title}, nil
}

// CreateEpisode inserts a new draft episode under an existing season.
func (s *Store) CreateEpisode(ctx context.Context, params EpisodeParams) (*Episode, error) {
	if params.SeasonID == "" {
		return nil, errors.New("episode season id is required")
	}
	if params.Title == "" {
		return nil, errors.New("episode title is required")
	}
	if params.LanguagePrimary == "" {
		return nil, errors.New("episode primary language is required")
	}
	if params.ContentType == "" {
		params.ContentType = ContentVideo
	}

	id := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO episodes (
            id, season_id, episode_number, title, content_type, duration_ms,
            is_paid, content_language_primary, content_languages_available,
            content_urls_by_language, status, publish_at, published_at,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?)`,
		id,
		params.SeasonID,
		params.EpisodeNumber,
		params.Title,
		params.ContentType,
		params.DurationMs,
		boolToInt(params.IsPaid),
		params.LanguagePrimary,
		marshalStrings(params.LanguagesAvailable),
		marshalStringMap(params.ContentURLs),
		StatusDraft,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}

	return s.GetEpisode(ctx, id)
}

// GetEpisode fetches an episode by identifier. Missing rows return (nil, nil).
func (s *Store) GetEpisode(ctx context.Context, id string) (*Episode, error) {
	return getEpisode(ctx, s.db, id)
}

func getEpisode(ctx context.Context, q dbtx, id string) (*Episode, error) {
	row := q.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM `+episodeTables+` WHERE e.id = ?`, id)
	episode, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return episode, nil
}

// ListEpisodes returns episodes filtered by status set (or all when no status
// is provided), ordered by creation time.
func (s *Store) ListEpisodes(ctx context.Context, statuses ...Status) ([]*Episode, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + episodeColumns + ` FROM ` + episodeTables
	orderClause := ` ORDER BY e.created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE e.status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// EpisodesBySeries returns every episode belonging to a series ordered by
// season and episode number.
func (s *Store) EpisodesBySeries(ctx context.Context, seriesID string) ([]*Episode, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+episodeColumns+` FROM `+episodeTables+
			` WHERE s.series_id = ? ORDER BY s.season_number, e.episode_number`,
		seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("query series episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// DueEpisodes returns scheduled episodes whose publish time has passed,
// oldest publish time first.
func (s *Store) DueEpisodes(ctx context.Context, now time.Time) ([]*Episode, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+episodeColumns+` FROM `+episodeTables+
			` WHERE e.status = ? AND e.publish_at IS NOT NULL AND e.publish_at <= ?
             ORDER BY e.publish_at ASC`,
		StatusScheduled,
		now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query due episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// ScheduleEpisode moves an episode into the scheduled state with the given
// publish time. The caller validates eligibility and rejects past timestamps.
func (s *Store) ScheduleEpisode(ctx context.Context, id string, publishAt time.Time) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET status = ?, publish_at = ?, updated_at = ? WHERE id = ?`,
		StatusScheduled,
		publishAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("schedule episode: %w", err)
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

// UnscheduleEpisode returns a scheduled episode to draft and clears its
// publish time.
func (s *Store) UnscheduleEpisode(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET status = ?, publish_at = NULL, updated_at = ? WHERE id = ? AND status = ?`,
		StatusDraft,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		StatusScheduled,
	)
	if err != nil {
		return fmt.Errorf("unschedule episode: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("episode %s is not scheduled", id)
	}
	return nil
}

// ArchiveEpisode moves an episode to the archived state. Any pending publish
// time is cleared so the publisher never picks the episode up again.
func (s *Store) ArchiveEpisode(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET status = ?, publish_at = NULL, updated_at = ? WHERE id = ?`,
		StatusArchived,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("archive episode: %w", err)
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

// AddEpisodeAsset attaches a localized artwork or auxiliary file to an episode.
func (s *Store) AddEpisodeAsset(ctx context.Context, episodeID string, asset Asset) (*Asset, error) {
	if asset.URL == "" {
		return nil, errors.New("asset url is required")
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO episode_assets (id, episode_id, language, variant, asset_type, url)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		episodeID,
		asset.Language,
		asset.Variant,
		asset.AssetType,
		asset.URL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert episode asset: %w", err)
	}
	asset.ID = id
	return &asset, nil
}

// EpisodeAssets returns every asset attached to an episode.
func (s *Store) EpisodeAssets(ctx context.Context, episodeID string) ([]Asset, error) {
	return episodeAssets(ctx, s.db, episodeID)
}

func episodeAssets(ctx context.Context, q dbtx, episodeID string) ([]Asset, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT id, language, variant, asset_type, url FROM episode_assets WHERE episode_id = ? ORDER BY id`,
		episodeID,
	)
	if err != nil {
		return nil, fmt.Errorf("query episode assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var asset Asset
		if err := rows.Scan(&asset.ID, &asset.Language, &asset.Variant, &asset.AssetType, &asset.URL); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

const (
	episodeTables  = "episodes e JOIN seasons s ON s.id = e.season_id"
	episodeColumns = "e.id, e.season_id, s.series_id, e.episode_number, e.title, e.content_type, e.duration_ms, e.is_paid, e.content_language_primary, e.content_languages_available, e.content_urls_by_language, e.status, e.publish_at, e.published_at, e.created_at, e.updated_at"
)

func scanEpisode(scanner interface{ Scan(dest ...any) error }) (*Episode, error) {
	var (
		id           string
		seasonID     string
		seriesID     string
		episodeNum   int
		title        string
		contentType  string
		durationMs   sql.NullInt64
		isPaid       sql.NullInt64
		langPrimary  string
		langsRaw     sql.NullString
		urlsRaw      sql.NullString
		statusStr    string
		publishRaw   sql.NullString
		publishedRaw sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&seasonID,
		&seriesID,
		&episodeNum,
		&title,
		&contentType,
		&durationMs,
		&isPaid,
		&langPrimary,
		&langsRaw,
		&urlsRaw,
		&statusStr,
		&publishRaw,
		&publishedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	episode := &Episode{
		ID:                 id,
		SeasonID:           seasonID,
		SeriesID:           seriesID,
		EpisodeNumber:      episodeNum,
		Title:              title,
		ContentType:        ContentType(contentType),
		DurationMs:         durationMs.Int64,
		IsPaid:             isPaid.Valid && isPaid.Int64 != 0,
		LanguagePrimary:    langPrimary,
		LanguagesAvailable: unmarshalStrings(langsRaw.String),
		ContentURLs:        unmarshalStringMap(urlsRaw.String),
		Status:             Status(statusStr),
	}
	if publishRaw.Valid {
		if publishAt, err := parseTimeString(publishRaw.String); err == nil {
			episode.PublishAt = &publishAt
		}
	}
	if publishedRaw.Valid {
		if publishedAt, err := parseTimeString(publishedRaw.String); err == nil {
			episode.PublishedAt = &publishedAt
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		episode.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		episode.UpdatedAt = updated
	}
	return episode, nil
}
