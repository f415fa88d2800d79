package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"showrunner/internal/config"
	"showrunner/internal/notifications"
	"showrunner/internal/queue"
	"showrunner/internal/stage"
)

// StageSet bundles the concrete pipeline handlers the manager orchestrates.
type StageSet struct {
	Scripter stage.Handler
	Voicer   stage.Handler
	Renderer stage.Handler
	Packager stage.Handler
}

type pipelineStage struct {
	name             string
	handler          stage.Handler
	startStatus      queue.Status
	processingStatus queue.Status
	doneStatus       queue.Status
}

// Manager coordinates queue processing using the registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration
	notifier     notifications.Service

	heartbeat *HeartbeatMonitor

	stages             []pipelineStage
	stageByStart       map[queue.Status]pipelineStage
	statusOrder        []queue.Status
	processingStatuses []queue.Status

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// NewManager constructs a workflow manager with default dependencies.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifier,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		heartbeat: NewHeartbeatMonitor(
			store,
			logger,
			time.Duration(cfg.Workflow.HeartbeatInterval)*time.Second,
			time.Duration(cfg.Workflow.HeartbeatTimeout)*time.Second,
		),
	}
}

// ConfigureStages registers the concrete stage handlers the workflow will run.
// Stages left nil are skipped; the next stage picks up from the previous done
// status, which lets a headless install run without the optional renderer.
func (m *Manager) ConfigureStages(set StageSet) {
	var stages []pipelineStage

	if set.Scripter != nil {
		stages = append(stages, pipelineStage{
			name:             "scripting",
			handler:          set.Scripter,
			startStatus:      queue.StatusPending,
			processingStatus: queue.StatusScripting,
			doneStatus:       queue.StatusScripted,
		})
	}
	voicedStatus := queue.StatusScripted
	if set.Voicer != nil {
		stages = append(stages, pipelineStage{
			name:             "voicing",
			handler:          set.Voicer,
			startStatus:      queue.StatusScripted,
			processingStatus: queue.StatusVoicing,
			doneStatus:       queue.StatusVoiced,
		})
		voicedStatus = queue.StatusVoiced
	}
	packagerStart := voicedStatus
	if set.Renderer != nil {
		stages = append(stages, pipelineStage{
			name:             "rendering",
			handler:          set.Renderer,
			startStatus:      voicedStatus,
			processingStatus: queue.StatusRendering,
			doneStatus:       queue.StatusRendered,
		})
		packagerStart = queue.StatusRendered
	}
	if set.Packager != nil {
		stages = append(stages, pipelineStage{
			name:             "packaging",
			handler:          set.Packager,
			startStatus:      packagerStart,
			processingStatus: queue.StatusPackaging,
			doneStatus:       queue.StatusCompleted,
		})
	}

	stageByStart := make(map[queue.Status]pipelineStage, len(stages))
	statusOrder := make([]queue.Status, 0, len(stages))
	var processing []queue.Status
	seen := make(map[queue.Status]struct{})
	for _, stg := range stages {
		stageByStart[stg.startStatus] = stg
		statusOrder = append(statusOrder, stg.startStatus)
		if stg.processingStatus != "" {
			if _, ok := seen[stg.processingStatus]; !ok {
				processing = append(processing, stg.processingStatus)
				seen[stg.processingStatus] = struct{}{}
			}
		}
	}

	m.mu.Lock()
	m.stages = stages
	m.stageByStart = stageByStart
	m.statusOrder = statusOrder
	m.processingStatuses = processing
	m.mu.Unlock()
}

func (m *Manager) stageForStatus(status queue.Status) (pipelineStage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stg, ok := m.stageByStart[status]
	return stg, ok
}
