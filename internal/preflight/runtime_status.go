package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"airdate/internal/config"
)

// CheckNtfyFromConfig evaluates ntfy status from config and connectivity.
func CheckNtfyFromConfig(cfg *config.Config) Result {
	const name = "ntfy"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	check := CheckNtfy(context.Background(), cfg.Notifications.NtfyTopic)
	if check.Passed {
		return Result{Name: name, Passed: true, Detail: check.Detail}
	}
	return Result{Name: name, Detail: check.Detail}
}

// DatabaseProbe reports the current catalog database file snapshot.
type DatabaseProbe struct {
	Exists bool
	Path   string
	Bytes  int64
}

// ProbeDatabase inspects the catalog database file without opening it.
func ProbeDatabase(cfg *config.Config) DatabaseProbe {
	if cfg == nil {
		return DatabaseProbe{}
	}
	path := cfg.DatabasePath()
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return DatabaseProbe{Path: path}
	}
	return DatabaseProbe{
		Exists: true,
		Path:   path,
		Bytes:  info.Size(),
	}
}

// DatabaseDetail renders a display-friendly summary for status UIs.
func (p DatabaseProbe) DatabaseDetail() string {
	if !p.Exists {
		return "No catalog database yet"
	}
	return fmt.Sprintf("%s (%.1f KiB)", p.Path, float64(p.Bytes)/1024)
}
