package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"showrunner/internal/logging"
	"showrunner/internal/metrics"
	"showrunner/internal/notifications"
	"showrunner/internal/queue"
	"showrunner/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	logger := m.stageLogger(ctx, m.runnerLogger(), item)

	message := classifyStageFailure(stageName, stageErr)
	resolved := services.FailureStatus(stageErr)
	if resolved == queue.StatusReview {
		item.SetReview(message)
		metrics.EpisodesReviewTotal.Inc()
	} else {
		item.SetFailed(message)
	}

	logger.Error("stage failed",
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", message),
		logging.Alert("stage_failure"),
		logging.Error(stageErr),
	)

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastItem(item)
	m.notifyStageFailure(ctx, stageName, item, resolved, message)
}

func (m *Manager) notifyStageFailure(ctx context.Context, stageName string, item *queue.Item, resolved queue.Status, message string) {
	if m.notifier == nil {
		return
	}
	logger := logging.WithContext(ctx, m.runnerLogger())

	var event notifications.Event
	payload := notifications.Payload{
		"show":    item.ShowTitle,
		"episode": item.EpisodeTitle,
	}
	if resolved == queue.StatusReview {
		event = notifications.EventReviewRequired
		payload["reason"] = message
	} else {
		event = notifications.EventError
		payload["context"] = fmt.Sprintf("%s (item #%d)", stageName, item.ID)
		payload["error"] = message
	}

	if err := m.notifier.Publish(ctx, event, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not send failure notification")
		} else {
			logger.Debug("failure notification failed", logging.Error(err))
		}
	}
}

func classifyStageFailure(stageName string, stageErr error) string {
	if stageErr == nil {
		if stageName != "" {
			return fmt.Sprintf("%s failed without error detail", stageName)
		}
		return "workflow failed without error detail"
	}
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = fmt.Sprintf("%s failed", stageName)
	}
	return message
}
