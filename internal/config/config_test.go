package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"airdate/internal/config"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Default()
	if cfg.Publisher.TickInterval != 60 {
		t.Fatalf("expected default tick interval 60, got %d", cfg.Publisher.TickInterval)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected default log format console, got %q", cfg.Logging.Format)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airdate.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[publisher]",
		"tick_interval = 5",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Publisher.TickInterval != 5 {
		t.Fatalf("expected tick interval 5, got %d", cfg.Publisher.TickInterval)
	}
	if cfg.Publisher.ErrorRetryInterval != 10 {
		t.Fatalf("expected defaulted retry interval 10, got %d", cfg.Publisher.ErrorRetryInterval)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected absolute data dir, got %q", cfg.Paths.DataDir)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "catalog.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airdate.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for bad log format")
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "airdate.toml")
	if err := os.WriteFile(path, []byte("[notifications]\nntfy_topic = \"https://ntfy.sh/from-file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("AIRDATE_NTFY_TOPIC", "https://ntfy.sh/from-env")
	t.Setenv("AIRDATE_DATA_DIR", filepath.Join(dir, "env-data"))

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/from-env" {
		t.Fatalf("expected env override for ntfy topic, got %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "env-data") {
		t.Fatalf("expected env override for data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, d := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", d)
		}
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "tick_interval") {
		t.Fatalf("sample config missing expected keys")
	}
}
