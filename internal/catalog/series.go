package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeriesParams carries the fields needed to create a series row.
type SeriesParams struct {
	Title              string
	Description        string
	LanguagePrimary    string
	LanguagesAvailable []string
}

// CreateSeries inserts a new draft series.
func (s *Store) CreateSeries(ctx context.Context, params SeriesParams) (*Series, error) {
	if params.Title == "" {
		return nil, errors.New("series title is required")
	}
	if params.LanguagePrimary == "" {
		return nil, errors.New("series primary language is required")
	}

	id := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO series (
            id, title, description, language_primary, languages_available,
            status, published_at, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		id,
		params.Title,
		nullableString(params.Description),
		params.LanguagePrimary,
		marshalStrings(params.LanguagesAvailable),
		StatusDraft,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert series: %w", err)
	}

	return s.GetSeries(ctx, id)
}

// GetSeries fetches a series by identifier. Missing rows return (nil, nil).
func (s *Store) GetSeries(ctx context.Context, id string) (*Series, error) {
	return getSeries(ctx, s.db, id)
}

func getSeries(ctx context.Context, q dbtx, id string) (*Series, error) {
	row := q.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM series WHERE id = ?`, id)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get series: %w", err)
	}
	return series, nil
}

// ListSeries returns series filtered by status set (or all when no status is
// provided), ordered by creation time.
func (s *Store) ListSeries(ctx context.Context, statuses ...Status) ([]*Series, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + seriesColumns + ` FROM series`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var result []*Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, series)
	}
	return result, rows.Err()
}

// AddSeriesAsset attaches a localized artwork or auxiliary file to a series.
func (s *Store) AddSeriesAsset(ctx context.Context, seriesID string, asset Asset) (*Asset, error) {
	if asset.URL == "" {
		return nil, errors.New("asset url is required")
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO series_assets (id, series_id, language, variant, asset_type, url)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		seriesID,
		asset.Language,
		asset.Variant,
		asset.AssetType,
		asset.URL,
	)
	if err != nil {
		return nil, fmt.Errorf("insert series asset: %w", err)
	}
	asset.ID = id
	return &asset, nil
}

// SeriesAssets returns every asset attached to a series.
func (s *Store) SeriesAssets(ctx context.Context, seriesID string) ([]Asset, error) {
	return seriesAssets(ctx, s.db, seriesID)
}

func seriesAssets(ctx context.Context, q dbtx, seriesID string) ([]Asset, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT id, language, variant, asset_type, url FROM series_assets WHERE series_id = ? ORDER BY id`,
		seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("query series assets: %w", err)
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

const seriesColumns = "id, title, description, language_primary, languages_available, status, published_at, created_at, updated_at"

func scanSeries(scanner interface{ Scan(dest ...any) error }) (*Series, error) {
	var (
		id           string
		title        string
		description  sql.NullString
		langPrimary  string
		langsRaw     sql.NullString
		statusStr    string
		publishedRaw sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&description,
		&langPrimary,
		&langsRaw,
		&statusStr,
		&publishedRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	series := &Series{
		ID:                 id,
		Title:              title,
		Description:        description.String,
		LanguagePrimary:    langPrimary,
		LanguagesAvailable: unmarshalStrings(langsRaw.String),
		Status:             Status(statusStr),
	}
	if publishedRaw.Valid {
		if published, err := parseTimeString(publishedRaw.String); err == nil {
			series.PublishedAt = &published
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		series.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		series.UpdatedAt = updated
	}
	return series, nil
}
