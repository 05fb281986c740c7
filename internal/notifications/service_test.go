package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airdate/internal/config"
	"airdate/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyEpisodePublished(context.Background(), "Chai Tales", "The First Cup"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured.body = string(body)
		_ = r.Body.Close()
		w.WriteHeader(http.StatusOK)
	}))
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "episode published",
			send: func(svc notifications.Service) error {
				return svc.NotifyEpisodePublished(context.Background(), "Chai Tales", "The First Cup")
			},
			expectTitle:   "Airdate - Episode Published",
			expectMessage: "Now live: Chai Tales - The First Cup",
			expectTags:    "airdate,episode,published",
		},
		{
			name: "series published",
			send: func(svc notifications.Service) error {
				return svc.NotifySeriesPublished(context.Background(), "Chai Tales")
			},
			expectTitle:    "Airdate - Series Published",
			expectMessage:  "Series now live: Chai Tales",
			expectTags:     "airdate,series,published",
			expectPriority: "high",
		},
		{
			name: "pass summary",
			send: func(svc notifications.Service) error {
				return svc.NotifyPassSummary(context.Background(), 3, 0, 42*time.Second)
			},
			expectTitle:   "Airdate - Pass Complete",
			expectMessage: "Publication pass complete: 3 episodes published in 42s",
			expectTags:    "airdate,pass,completed",
		},
		{
			name: "pass summary with failures",
			send: func(svc notifications.Service) error {
				return svc.NotifyPassSummary(context.Background(), 2, 1, time.Minute)
			},
			expectTitle:   "Airdate - Pass Complete (with errors)",
			expectMessage: "Publication pass complete: 2 published, 1 failed in 1m0s",
			expectTags:    "airdate,pass,completed",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("database locked"), "publication pass")
			},
			expectTitle:    "Airdate - Error",
			expectMessage:  "Error with publication pass: database locked",
			expectTags:     "airdate,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured capturedRequest
			server := newCaptureServer(t, &captured)
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed notification: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Publishes = false
	cfg.Notifications.PassSummaries = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyEpisodePublished(ctx, "Chai Tales", "The First Cup"); err != nil {
		t.Fatalf("expected suppressed publish notification, got %v", err)
	}
	if err := svc.NotifyPassSummary(ctx, 5, 1, time.Minute); err != nil {
		t.Fatalf("expected suppressed pass summary, got %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "pass"); err != nil {
		t.Fatalf("expected suppressed error notification, got %v", err)
	}
}

func TestNtfyServiceSkipsQuietPasses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for quiet pass: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.PassMinPublished = 1

	svc := notifications.NewService(&cfg)
	if err := svc.NotifyPassSummary(context.Background(), 0, 0, time.Second); err != nil {
		t.Fatalf("expected quiet pass to skip notification, got %v", err)
	}
}
