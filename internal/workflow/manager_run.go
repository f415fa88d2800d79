package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"showrunner/internal/logging"
	"showrunner/internal/queue"
)

// Start begins background processing. Items left mid-stage by a previous
// daemon run are rolled back to their start status before polling begins.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.statusOrder) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	if reset, err := m.store.ResetStuckProcessing(ctx); err != nil {
		m.runnerLogger().Warn("stuck processing reset failed", logging.Error(err))
	} else if reset > 0 {
		m.runnerLogger().Info("reset stuck processing items", logging.Int64("count", reset))
	}

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
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
	logger := m.runnerLogger()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.mu.RLock()
		processing := m.processingStatuses
		m.mu.RUnlock()
		if err := m.heartbeat.ReclaimStaleItems(ctx, logger, processing); err != nil {
			logger.Warn("reclaim stale processing failed; stuck items may remain",
				logging.Error(err))
		}

		item, err := m.nextItem(ctx)
		if err != nil {
			m.handleNextItemError(ctx, logger, err)
			continue
		}
		if item == nil {
			m.waitForItemOrShutdown(ctx)
			continue
		}

		if err := m.processItem(ctx, logger, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) runnerLogger() *slog.Logger {
	if m.logger == nil {
		return logging.NewNop()
	}
	return m.logger.With(logging.String("component", "workflow-runner"))
}

func (m *Manager) nextItem(ctx context.Context) (*queue.Item, error) {
	m.mu.RLock()
	order := m.statusOrder
	m.mu.RUnlock()
	if len(order) == 0 {
		return nil, nil
	}
	return m.store.NextForStatuses(ctx, order...)
}

func (m *Manager) handleNextItemError(ctx context.Context, logger *slog.Logger, err error) {
	m.setLastError(err)
	logger.Error("failed to fetch next queue item", logging.Error(err))
	select {
	case <-ctx.Done():
		return
	case <-time.After(time.Duration(m.cfg.Workflow.ErrorRetryInterval) * time.Second):
	}
}

func (m *Manager) waitForItemOrShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(m.pollInterval):
	}
}
