package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"showrunner/internal/logging"
	"showrunner/internal/metrics"
	"showrunner/internal/queue"
	"showrunner/internal/services"
	"showrunner/internal/stage"
)

func (m *Manager) processItem(ctx context.Context, runnerLogger *slog.Logger, item *queue.Item) error {
	stg, ok := m.stageForStatus(item.Status)
	if !ok {
		runnerLogger.Warn("no stage configured for status", logging.String("status", string(item.Status)))
		m.waitForItemOrShutdown(ctx)
		return nil
	}

	requestID := uuid.NewString()
	stageCtx := withStageContext(ctx, stg.name, item, requestID)
	stageLogger := m.stageLogger(stageCtx, runnerLogger, item)

	if err := m.transitionToProcessing(stageCtx, stg, item); err != nil {
		stageLogger.Error("failed to transition item to processing", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(stageCtx, stageLogger, stg, item)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, stg pipelineStage, item *queue.Item) error {
	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String(logging.FieldShowID, item.ShowID),
		logging.String(logging.FieldEpisodeTitle, strings.TrimSpace(item.EpisodeTitle)),
	)

	handler := stg.handler
	if handler == nil {
		err := fmt.Errorf("stage %s missing handler", stg.name)
		item.SetFailed(err.Error())
		if updateErr := m.store.Update(ctx, item); updateErr != nil {
			stageLogger.Error("failed to persist missing handler failure", logging.Error(updateErr))
		}
		m.setLastError(err)
		return err
	}

	if err := handler.Prepare(ctx, item); err != nil {
		m.handleStageFailure(ctx, stg.name, item, err)
		m.setLastError(err)
		metrics.ObserveStage(stg.name, string(services.FailureStatus(err)), time.Since(stageStart).Seconds())
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	execErr := m.executeWithHeartbeat(ctx, handler, item)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return execErr
		}
		m.handleStageFailure(ctx, stg.name, item, execErr)
		m.setLastError(execErr)
		metrics.ObserveStage(stg.name, string(services.FailureStatus(execErr)), time.Since(stageStart).Seconds())
		return execErr
	}

	if item.Status == stg.processingStatus || item.Status == "" {
		item.Status = stg.doneStatus
	}
	item.LastHeartbeat = nil
	if item.Status == queue.StatusCompleted {
		if item.ProgressPercent < 100 {
			item.ProgressPercent = 100
		}
		if strings.TrimSpace(item.ProgressMessage) == "" {
			item.ProgressMessage = "Completed"
		}
		metrics.EpisodesCompletedTotal.Inc()
	}
	if err := m.store.Update(ctx, item); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	metrics.ObserveStage(stg.name, "completed", time.Since(stageStart).Seconds())
	stageLogger.Info("stage completed",
		logging.String("next_status", string(item.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	m.setLastItem(item)
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, handler stage.Handler, item *queue.Item) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeat.StartLoop(hbCtx, &hbWG, item.ID)

	execErr := handler.Execute(ctx, item)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (m *Manager) transitionToProcessing(ctx context.Context, stg pipelineStage, item *queue.Item) error {
	now := time.Now().UTC()
	item.Status = stg.processingStatus
	item.ProgressPercent = 0
	item.ErrorMessage = ""
	item.LastHeartbeat = &now

	if err := m.store.Update(ctx, item); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}
	m.setLastItem(item)
	return nil
}

func (m *Manager) stageLogger(ctx context.Context, runnerLogger *slog.Logger, item *queue.Item) *slog.Logger {
	base := runnerLogger
	if base == nil {
		base = m.logger
	}
	if base == nil {
		base = logging.NewNop()
	}
	if item != nil {
		base = base.With(
			logging.Int64(logging.FieldItemID, item.ID),
			logging.String(logging.FieldProductionID, item.ProductionID),
		)
	}
	return logging.WithContext(ctx, base)
}

func withStageContext(ctx context.Context, stageName string, item *queue.Item, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if item != nil {
		ctx = services.WithItemID(ctx, item.ID)
	}
	if stageName != "" {
		ctx = services.WithStage(ctx, stageName)
	}
	if requestID != "" {
		ctx = services.WithRequestID(ctx, requestID)
	}
	return ctx
}
