package catalog

import (
	"strings"
	"time"
)

// Status represents the editorial lifecycle of a series or episode.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusScheduled Status = "SCHEDULED"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

var allStatuses = []Status{
	StatusDraft,
	StatusScheduled,
	StatusPublished,
	StatusArchived,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToUpper(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// ContentType distinguishes playable episode payloads.
type ContentType string

const (
	ContentVideo   ContentType = "VIDEO"
	ContentArticle ContentType = "ARTICLE"
)

// Variant identifies the artwork aspect an asset was produced for.
type Variant string

const (
	VariantPortrait  Variant = "PORTRAIT"
	VariantLandscape Variant = "LANDSCAPE"
	VariantSquare    Variant = "SQUARE"
	VariantBanner    Variant = "BANNER"
)

// AssetType identifies what an asset row is used for.
type AssetType string

const (
	AssetThumbnail AssetType = "thumbnail"
	AssetPoster    AssetType = "poster"
	AssetSubtitle  AssetType = "subtitle"
)

// Series is the aggregate container a viewer browses. It publishes only as
// a side effect of one of its episodes publishing.
type Series struct {
	ID                 string
	Title              string
	Description        string
	LanguagePrimary    string
	LanguagesAvailable []string
	Status             Status
	PublishedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Season groups episodes inside a series.
type Season struct {
	ID           string
	SeriesID     string
	SeasonNumber int
	Title        string
}

// Episode is the publishable leaf unit. SeriesID is resolved through the
// owning season on every read so callers never walk the chain themselves.
type Episode struct {
	ID                 string
	SeasonID           string
	SeriesID           string
	EpisodeNumber      int
	Title              string
	ContentType        ContentType
	DurationMs         int64
	IsPaid             bool
	LanguagePrimary    string
	LanguagesAvailable []string
	ContentURLs        map[string]string
	Status             Status
	PublishAt          *time.Time
	PublishedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Asset is a localized artwork or auxiliary file owned by a series or an
// episode.
type Asset struct {
	ID        string
	Language  string
	Variant   Variant
	AssetType AssetType
	URL       string
}

// EpisodeParams carries the fields needed to create an episode row.
type EpisodeParams struct {
	SeasonID           string
	EpisodeNumber      int
	Title              string
	ContentType        ContentType
	DurationMs         int64
	IsPaid             bool
	LanguagePrimary    string
	LanguagesAvailable []string
	ContentURLs        map[string]string
}

// Stats counts episodes per lifecycle status.
type Stats struct {
	Episodes map[Status]int
	Series   map[Status]int
}

// HealthSummary describes aggregated catalog counts for key states.
type HealthSummary struct {
	Episodes  int
	Scheduled int
	Published int
	Overdue   int
}

// DatabaseHealth captures diagnostic information about the catalog database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	TotalEpisodes    int
	Error            string
}
