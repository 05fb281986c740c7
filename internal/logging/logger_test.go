package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("episode published",
		String(FieldComponent, "publisher"),
		String(FieldEpisodeID, "ep-1"),
	)

	out := buf.String()
	if !strings.Contains(out, "[publisher]") {
		t.Fatalf("expected component in output, got %q", out)
	}
	if !strings.Contains(out, "episode published") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "episode_id: ep-1") {
		t.Fatalf("expected attribute bullet in output, got %q", out)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}

	logger.Warn("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("expected warn emitted, got %q", buf.String())
	}
}

func TestWithContextTagsPassAndEpisode(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	ctx := WithPassID(context.Background(), "pass-123")
	ctx = WithEpisodeID(ctx, "ep-9")
	WithContext(ctx, logger).Info("working")

	out := buf.String()
	if !strings.Contains(out, "pass_id: pass-123") {
		t.Fatalf("expected pass id attribute, got %q", out)
	}
	if !strings.Contains(out, "episode_id: ep-9") {
		t.Fatalf("expected episode id attribute, got %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
