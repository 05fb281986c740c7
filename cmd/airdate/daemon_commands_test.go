package main

import (
	"testing"
)

func TestBuildStatusRowsOrdersLifecycle(t *testing.T) {
	episodes := map[string]int{"PUBLISHED": 3, "DRAFT": 1}
	series := map[string]int{"PUBLISHED": 1}

	rows := buildStatusRows(episodes, series)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "DRAFT" || rows[1][0] != "PUBLISHED" {
		t.Fatalf("unexpected ordering: %#v", rows)
	}
	if rows[1][1] != "3" || rows[1][2] != "1" {
		t.Fatalf("unexpected counts: %#v", rows)
	}
}

func TestBuildStatusRowsEmpty(t *testing.T) {
	if rows := buildStatusRows(nil, nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %#v", rows)
	}
}

func TestStatusShowsCatalogCounts(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"seed"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	requireContains(t, out, "Seeded")

	out, _, err = runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Catalog Status")
	requireContains(t, out, "SCHEDULED")
}
