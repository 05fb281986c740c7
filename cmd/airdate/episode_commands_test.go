package main

import (
	"testing"
	"time"

	"airdate/internal/testsupport"
)

func TestEpisodesListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"episodes", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("episodes list: %v", err)
	}
	requireContains(t, out, "No episodes found")
}

func TestEpisodesScheduleAndPublish(t *testing.T) {
	env := setupCLITestEnv(t)

	series := testsupport.NewSeries(t, env.store, "Chai Tales", "te")
	season := testsupport.NewSeason(t, env.store, series.ID, 1)
	episode := testsupport.NewEpisode(t, env.store, season.ID, 1, "te")
	testsupport.AddThumbnails(t, env.store, episode.ID, "te")

	publishAt := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	out, _, err := runCLI(t, []string{"episodes", "schedule", episode.ID, publishAt}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("episodes schedule: %v", err)
	}
	requireContains(t, out, "Episode scheduled")

	out, _, err = runCLI(t, []string{"episodes", "list", "--status", "SCHEDULED"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("episodes list: %v", err)
	}
	requireContains(t, out, episode.Title)

	out, _, err = runCLI(t, []string{"episodes", "publish", episode.ID}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("episodes publish: %v", err)
	}
	requireContains(t, out, "Episode published")

	out, _, err = runCLI(t, []string{"episodes", "archive", episode.ID}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("episodes archive: %v", err)
	}
	requireContains(t, out, "Episode archived")
}

func TestSeedAndRunPass(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"seed"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	requireContains(t, out, "Seeded 2 series")

	out, _, err = runCLI(t, []string{"run-pass"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("run-pass: %v", err)
	}
	requireContains(t, out, "2 published")
}

func TestParsePublishTime(t *testing.T) {
	if _, err := parsePublishTime("2026-09-01T10:00:00Z"); err != nil {
		t.Fatalf("RFC 3339 timestamp rejected: %v", err)
	}
	if _, err := parsePublishTime("2026-09-01 10:00"); err != nil {
		t.Fatalf("local timestamp rejected: %v", err)
	}
	if _, err := parsePublishTime("next tuesday"); err == nil {
		t.Fatal("expected parse failure for free-form input")
	}
}
