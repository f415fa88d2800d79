package workflow

import (
	"context"

	"showrunner/internal/logging"
	"showrunner/internal/queue"
	"showrunner/internal/stage"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running     bool
	LastError   string
	LastItem    *queue.Item
	QueueStats  map[queue.Status]int
	StageHealth map[string]stage.Health
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	running := m.running
	lastErr := m.lastErr
	lastItem := m.lastItem
	stages := make([]pipelineStage, len(m.stages))
	copy(stages, m.stages)
	m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.runnerLogger().Warn("failed to read queue stats", logging.Error(err))
	}

	health := make(map[string]stage.Health, len(stages))
	for _, stg := range stages {
		if stg.handler == nil {
			continue
		}
		health[stg.name] = stg.handler.HealthCheck(ctx)
	}

	summary := StatusSummary{Running: running, QueueStats: stats, StageHealth: health}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	if lastItem != nil {
		itemCopy := *lastItem
		summary.LastItem = &itemCopy
	}
	return summary
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastItem(item *queue.Item) {
	m.mu.Lock()
	if item != nil {
		itemCopy := *item
		m.lastItem = &itemCopy
	} else {
		m.lastItem = nil
	}
	m.mu.Unlock()
}
