package ipc_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"airdate/internal/catalog"
	"airdate/internal/daemon"
	"airdate/internal/ipc"
	"airdate/internal/logging"
	"airdate/internal/publisher"
	"airdate/internal/testsupport"
)

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	mgr := publisher.NewManager(cfg, store, logger)
	d, err := daemon.New(cfg, store, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := cfg.SocketPath()
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if status.PID == 0 {
		t.Fatal("expected daemon PID in status")
	}

	seedResp, err := client.Seed()
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if seedResp.Series != 2 || seedResp.Episodes != 3 {
		t.Fatalf("unexpected seed result: %#v", seedResp)
	}

	listResp, err := client.EpisodeList(nil)
	if err != nil {
		t.Fatalf("EpisodeList failed: %v", err)
	}
	if len(listResp.Episodes) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(listResp.Episodes))
	}

	scheduled, err := client.EpisodeList([]string{string(catalog.StatusScheduled)})
	if err != nil {
		t.Fatalf("EpisodeList filtered failed: %v", err)
	}
	if len(scheduled.Episodes) == 0 {
		t.Fatal("expected seeded scheduled episodes")
	}

	seriesResp, err := client.SeriesList(nil)
	if err != nil {
		t.Fatalf("SeriesList failed: %v", err)
	}
	if len(seriesResp.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(seriesResp.Series))
	}

	passResp, err := client.RunPass()
	if err != nil {
		t.Fatalf("RunPass failed: %v", err)
	}
	if passResp.Pass.Published != 2 {
		t.Fatalf("expected 2 episodes published by manual pass, got %#v", passResp.Pass)
	}

	// The third seeded episode sits two minutes out; publish it manually.
	var pending string
	for _, episode := range scheduled.Episodes {
		if episode.Title == "Unspoken Words" {
			pending = episode.ID
		}
	}
	if pending == "" {
		t.Fatal("expected to find the future-scheduled episode")
	}
	pubResp, err := client.Publish(pending)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !pubResp.Published {
		t.Fatal("expected publish response to be true")
	}

	statsResp, err := client.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if statsResp.Episodes[string(catalog.StatusPublished)] != 3 {
		t.Fatalf("expected 3 published episodes, got %v", statsResp.Episodes)
	}

	healthResp, err := client.CatalogHealth()
	if err != nil {
		t.Fatalf("CatalogHealth failed: %v", err)
	}
	if healthResp.Episodes != 3 || healthResp.Published != 3 || healthResp.Overdue != 0 {
		t.Fatalf("unexpected health response: %#v", healthResp)
	}

	// Schedule, unschedule, and archive round trip against a published
	// episode is invalid; use a fresh draft instead.
	series := testsupport.NewSeries(t, store, "Extra", "te")
	season := testsupport.NewSeason(t, store, series.ID, 1)
	draft := testsupport.NewEpisode(t, store, season.ID, 1, "te")
	testsupport.AddThumbnails(t, store, draft.ID, "te")

	schedResp, err := client.Schedule(draft.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if !schedResp.Scheduled {
		t.Fatal("expected schedule response to be true")
	}

	unschedResp, err := client.Unschedule(draft.ID)
	if err != nil {
		t.Fatalf("Unschedule failed: %v", err)
	}
	if !unschedResp.Unscheduled {
		t.Fatal("expected unschedule response to be true")
	}

	archResp, err := client.Archive(draft.ID)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if !archResp.Archived {
		t.Fatal("expected archive response to be true")
	}

	dbHealth, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth failed: %v", err)
	}
	if !strings.HasSuffix(dbHealth.DBPath, "catalog.db") {
		t.Fatalf("unexpected db path: %s", dbHealth.DBPath)
	}

	notifyResp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if notifyResp == nil || notifyResp.Message == "" {
		t.Fatalf("expected notification message, got %#v", notifyResp)
	}

	logPath := d.LogPath()
	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	logResp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("LogTail failed: %v", err)
	}
	if len(logResp.Lines) != 2 || logResp.Lines[0] != "second" || logResp.Lines[1] != "third" {
		t.Fatalf("unexpected log tail response: %#v", logResp.Lines)
	}

	followDone := make(chan struct{})
	go func(offset int64) {
		resp, err := client.LogTail(ipc.LogTailRequest{Offset: offset, Follow: true, WaitMillis: 500})
		if err != nil {
			t.Errorf("LogTail follow error: %v", err)
			return
		}
		if len(resp.Lines) != 1 || resp.Lines[0] != "fourth" {
			t.Errorf("unexpected follow lines: %#v", resp.Lines)
		}
		close(followDone)
	}(logResp.Offset)

	time.Sleep(100 * time.Millisecond)
	if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		_, _ = f.WriteString("fourth\n")
		_ = f.Close()
	} else {
		t.Fatalf("append log: %v", err)
	}

	select {
	case <-followDone:
	case <-time.After(10 * time.Second):
		t.Fatal("log tail follow timed out")
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stop response to be true")
	}

	status2, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status2.Running {
		t.Fatal("expected daemon to be stopped")
	}
}
