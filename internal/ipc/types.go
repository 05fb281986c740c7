package ipc

import (
	"time"

	"airdate/internal/catalog"
)

// StartRequest triggers the publishing loop.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the publishing loop.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// PassSummary mirrors the publisher's pass result for IPC callers.
type PassSummary struct {
	PassID     string `json:"pass_id"`
	StartedAt  string `json:"started_at"`
	DurationMS int64  `json:"duration_ms"`
	Due        int    `json:"due"`
	Published  int    `json:"published"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
}

// StatusResponse represents combined daemon/publisher status information.
type StatusResponse struct {
	Running       bool           `json:"running"`
	EpisodeStats  map[string]int `json:"episode_stats"`
	SeriesStats   map[string]int `json:"series_stats"`
	LastError     string         `json:"last_error"`
	LastPass      *PassSummary   `json:"last_pass"`
	LockPath      string         `json:"lock_path"`
	CatalogDBPath string         `json:"catalog_db_path"`
	PID           int            `json:"pid"`
}

// Episode is the catalog episode DTO carried over IPC.
type Episode struct {
	ID            string `json:"id"`
	SeasonID      string `json:"season_id"`
	SeriesID      string `json:"series_id"`
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
	ContentType   string `json:"content_type"`
	DurationMs    int64  `json:"duration_ms"`
	IsPaid        bool   `json:"is_paid"`
	Language      string `json:"language"`
	Status        string `json:"status"`
	PublishAt     string `json:"publish_at,omitempty"`
	PublishedAt   string `json:"published_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Series is the catalog series DTO carried over IPC.
type Series struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Language    string `json:"language"`
	Status      string `json:"status"`
	PublishedAt string `json:"published_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// FromEpisode converts a catalog episode into its IPC DTO.
func FromEpisode(episode *catalog.Episode) Episode {
	dto := Episode{
		ID:            episode.ID,
		SeasonID:      episode.SeasonID,
		SeriesID:      episode.SeriesID,
		EpisodeNumber: episode.EpisodeNumber,
		Title:         episode.Title,
		ContentType:   string(episode.ContentType),
		DurationMs:    episode.DurationMs,
		IsPaid:        episode.IsPaid,
		Language:      episode.LanguagePrimary,
		Status:        string(episode.Status),
		CreatedAt:     episode.CreatedAt.UTC().Format(time.RFC3339),
	}
	if episode.PublishAt != nil {
		dto.PublishAt = episode.PublishAt.UTC().Format(time.RFC3339)
	}
	if episode.PublishedAt != nil {
		dto.PublishedAt = episode.PublishedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

// FromSeries converts a catalog series into its IPC DTO.
func FromSeries(series *catalog.Series) Series {
	dto := Series{
		ID:        series.ID,
		Title:     series.Title,
		Language:  series.LanguagePrimary,
		Status:    string(series.Status),
		CreatedAt: series.CreatedAt.UTC().Format(time.RFC3339),
	}
	if series.PublishedAt != nil {
		dto.PublishedAt = series.PublishedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

// EpisodeListRequest filters episode listing by status.
type EpisodeListRequest struct {
	Statuses []string `json:"statuses"`
}

// EpisodeListResponse contains catalog episodes.
type EpisodeListResponse struct {
	Episodes []Episode `json:"episodes"`
}

// SeriesListRequest filters series listing by status.
type SeriesListRequest struct {
	Statuses []string `json:"statuses"`
}

// SeriesListResponse contains catalog series.
type SeriesListResponse struct {
	Series []Series `json:"series"`
}

// PublishRequest publishes an episode immediately.
type PublishRequest struct {
	EpisodeID string `json:"episode_id"`
}

// PublishResponse indicates publish result.
type PublishResponse struct {
	Published bool `json:"published"`
}

// ScheduleRequest sets a future publish time on an episode.
type ScheduleRequest struct {
	EpisodeID string `json:"episode_id"`
	PublishAt string `json:"publish_at"`
}

// ScheduleResponse indicates schedule result.
type ScheduleResponse struct {
	Scheduled bool `json:"scheduled"`
}

// UnscheduleRequest returns a scheduled episode to draft.
type UnscheduleRequest struct {
	EpisodeID string `json:"episode_id"`
}

// UnscheduleResponse indicates unschedule result.
type UnscheduleResponse struct {
	Unscheduled bool `json:"unscheduled"`
}

// ArchiveRequest retires an episode.
type ArchiveRequest struct {
	EpisodeID string `json:"episode_id"`
}

// ArchiveResponse indicates archive result.
type ArchiveResponse struct {
	Archived bool `json:"archived"`
}

// RunPassRequest triggers an immediate publication pass.
type RunPassRequest struct{}

// RunPassResponse reports the executed pass.
type RunPassResponse struct {
	Pass PassSummary `json:"pass"`
}

// StatsRequest fetches per-status catalog counts.
type StatsRequest struct{}

// StatsResponse reports per-status catalog counts.
type StatsResponse struct {
	Episodes map[string]int `json:"episodes"`
	Series   map[string]int `json:"series"`
}

// CatalogHealthRequest fetches aggregate diagnostics.
type CatalogHealthRequest struct{}

// CatalogHealthResponse reports catalog health information.
type CatalogHealthResponse struct {
	Episodes  int `json:"episodes"`
	Scheduled int `json:"scheduled"`
	Published int `json:"published"`
	Overdue   int `json:"overdue"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	TablesPresent    []string `json:"tables_present"`
	MissingTables    []string `json:"missing_tables"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalEpisodes    int      `json:"total_episodes"`
	Error            string   `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// SeedRequest populates the catalog with demo data.
type SeedRequest struct{}

// SeedResponse reports what the seed created.
type SeedResponse struct {
	Series   int `json:"series"`
	Seasons  int `json:"seasons"`
	Episodes int `json:"episodes"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
