package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"airdate/internal/config"
)

const userAgent = "Airdate-Go/0.1.0"

// Service defines the notification surface exposed to publishing components.
type Service interface {
	NotifyEpisodePublished(ctx context.Context, seriesTitle, episodeTitle string) error
	NotifySeriesPublished(ctx context.Context, seriesTitle string) error
	NotifyPassSummary(ctx context.Context, published, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:         topic,
		client:           client,
		publishes:        cfg.Notifications.Publishes,
		passSummaries:    cfg.Notifications.PassSummaries,
		errors:           cfg.Notifications.Errors,
		passMinPublished: cfg.Notifications.PassMinPublished,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint         string
	client           *http.Client
	publishes        bool
	passSummaries    bool
	errors           bool
	passMinPublished int
}

func (n *ntfyService) NotifyEpisodePublished(ctx context.Context, seriesTitle, episodeTitle string) error {
	if !n.publishes {
		return nil
	}
	seriesTitle = strings.TrimSpace(seriesTitle)
	episodeTitle = strings.TrimSpace(episodeTitle)
	message := fmt.Sprintf("Now live: %s", episodeTitle)
	if seriesTitle != "" {
		message = fmt.Sprintf("Now live: %s - %s", seriesTitle, episodeTitle)
	}
	data := payload{
		title:   "Airdate - Episode Published",
		message: message,
		tags:    []string{"airdate", "episode", "published"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySeriesPublished(ctx context.Context, seriesTitle string) error {
	if !n.publishes {
		return nil
	}
	seriesTitle = strings.TrimSpace(seriesTitle)
	data := payload{
		title:    "Airdate - Series Published",
		message:  fmt.Sprintf("Series now live: %s", seriesTitle),
		tags:     []string{"airdate", "series", "published"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPassSummary(ctx context.Context, published, failed int, duration time.Duration) error {
	if !n.passSummaries {
		return nil
	}
	if failed == 0 && published < n.passMinPublished {
		return nil
	}

	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title string
	var message string
	if failed == 0 {
		title = "Airdate - Pass Complete"
		message = fmt.Sprintf("Publication pass complete: %d episodes published in %s", published, durationText)
	} else {
		title = "Airdate - Pass Complete (with errors)"
		message = fmt.Sprintf("Publication pass complete: %d published, %d failed in %s", published, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"airdate", "pass", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Airdate - Error",
		message:  builder.String(),
		tags:     []string{"airdate", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Airdate - Test",
		message:  "Notification system test",
		tags:     []string{"airdate", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyEpisodePublished(context.Context, string, string) error     { return nil }
func (noopService) NotifySeriesPublished(context.Context, string) error              { return nil }
func (noopService) NotifyPassSummary(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error                 { return nil }
func (noopService) TestNotification(context.Context) error                           { return nil }
