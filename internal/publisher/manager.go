package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"airdate/internal/catalog"
	"airdate/internal/config"
	"airdate/internal/logging"
	"airdate/internal/notifications"
)

// Manager owns the scheduled-publishing loop.
type Manager struct {
	cfg           *config.Config
	store         *catalog.Store
	logger        *slog.Logger
	notifier      notifications.Service
	tickInterval  time.Duration
	retryInterval time.Duration
	now           func() time.Time

	passMu sync.Mutex

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastPass *PassResult
}

// NewManager constructs a publishing manager with the default notifier.
func NewManager(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a publishing manager with a custom
// notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *catalog.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	return &Manager{
		cfg:           cfg,
		store:         store,
		logger:        logging.NewComponentLogger(logger, "publisher"),
		notifier:      notifier,
		tickInterval:  time.Duration(cfg.Publisher.TickInterval) * time.Second,
		retryInterval: time.Duration(cfg.Publisher.ErrorRetryInterval) * time.Second,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("publisher already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for the in-flight pass to
// complete.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	m.logger.Info("publishing loop started",
		logging.Duration("tick_interval", m.tickInterval),
	)

	for {
		// The pass context survives cancellation so shutdown finishes the
		// in-flight pass instead of tearing down mid-transaction.
		result, err := m.RunPass(context.WithoutCancel(ctx))
		wait := m.tickInterval
		if err != nil {
			m.setLastError(err)
			m.logger.Error("publication pass failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "pass_failed"),
				logging.String(logging.FieldErrorHint, "check catalog database access"),
			)
			if notifyErr := m.notifier.NotifyError(ctx, err, "publication pass"); notifyErr != nil {
				m.logger.Warn("error notification failed", logging.Error(notifyErr))
			}
			wait = m.retryInterval
		} else {
			m.setLastPass(result)
		}

		select {
		case <-ctx.Done():
			m.logger.Info("publishing loop stopped")
			return
		case <-time.After(wait):
		}
	}
}

// Running reports whether the background loop is active.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastPass(result PassResult) {
	m.mu.Lock()
	m.lastErr = nil
	m.lastPass = &result
	m.mu.Unlock()
}
