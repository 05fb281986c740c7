package publisher

import (
	"context"

	"airdate/internal/catalog"
	"airdate/internal/logging"
)

// StatusSummary represents lightweight publisher diagnostics.
type StatusSummary struct {
	Running      bool
	LastError    string
	LastPass     *PassResult
	CatalogStats catalog.Stats
}

// Status returns the latest publisher information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	running := m.running
	lastErr := m.lastErr
	lastPass := m.lastPass
	m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Warn("failed to read catalog stats", logging.Error(err))
	}

	summary := StatusSummary{Running: running, CatalogStats: stats}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastPass != nil {
		copy := *lastPass
		summary.LastPass = &copy
	}
	return summary
}
