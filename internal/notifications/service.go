package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"showrunner/internal/config"
)

const userAgent = "ShowRunner-Go/0.1.0"

// Event enumerates the workflow milestones that can produce a notification.
type Event string

const (
	EventProductionQueued Event = "production_queued"
	EventScriptCompleted  Event = "script_completed"
	EventAudioCompleted   Event = "audio_completed"
	EventVideoCompleted   Event = "video_completed"
	EventEpisodeCompleted Event = "episode_completed"
	EventReviewRequired   Event = "review_required"
	EventError            Event = "error"
	EventTest             Event = "test"
)

// Payload carries event-specific values used when formatting messages.
type Payload map[string]string

// Service defines the notification surface exposed to workflow components.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled: map[Event]bool{
			EventProductionQueued: cfg.Notifications.Production,
			EventScriptCompleted:  cfg.Notifications.Script,
			EventAudioCompleted:   cfg.Notifications.Audio,
			EventVideoCompleted:   cfg.Notifications.Video,
			EventEpisodeCompleted: cfg.Notifications.Production,
			EventReviewRequired:   cfg.Notifications.Review,
			EventError:            cfg.Notifications.Errors,
			EventTest:             true,
		},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  map[Event]bool
}

// Publish formats and delivers the event when its category is enabled.
// Unknown events are dropped silently so new call sites degrade gracefully.
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if enabled, ok := n.enabled[event]; ok && !enabled {
		return nil
	}
	msg, ok := formatEvent(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func formatEvent(event Event, payload Payload) (message, bool) {
	get := func(key string) string {
		return strings.TrimSpace(payload[key])
	}
	episode := get("episode")
	show := get("show")
	label := episode
	if show != "" && episode != "" {
		label = show + ": " + episode
	} else if show != "" {
		label = show
	}

	switch event {
	case EventProductionQueued:
		return message{
			title: "Show Runner - Production Queued",
			body:  fmt.Sprintf("Queued for production: %s", label),
			tags:  []string{"showrunner", "queue", "started"},
		}, true
	case EventScriptCompleted:
		body := fmt.Sprintf("Script ready: %s", label)
		if lines := get("lines"); lines != "" {
			body = fmt.Sprintf("%s (%s lines)", body, lines)
		}
		return message{
			title: "Show Runner - Script Ready",
			body:  body,
			tags:  []string{"showrunner", "script", "completed"},
		}, true
	case EventAudioCompleted:
		return message{
			title: "Show Runner - Audio Ready",
			body:  fmt.Sprintf("Voice track assembled: %s", label),
			tags:  []string{"showrunner", "audio", "completed"},
		}, true
	case EventVideoCompleted:
		return message{
			title: "Show Runner - Video Ready",
			body:  fmt.Sprintf("Episode video rendered: %s", label),
			tags:  []string{"showrunner", "video", "completed"},
		}, true
	case EventEpisodeCompleted:
		body := fmt.Sprintf("Ready to publish: %s", label)
		if file := get("finalFile"); file != "" {
			body = fmt.Sprintf("%s\nFile: %s", body, file)
		}
		return message{
			title:    "Show Runner - Episode Complete",
			body:     body,
			tags:     []string{"showrunner", "production", "completed"},
			priority: "high",
		}, true
	case EventReviewRequired:
		body := fmt.Sprintf("Manual review required: %s", label)
		if reason := get("reason"); reason != "" {
			body = fmt.Sprintf("%s\nReason: %s", body, reason)
		}
		return message{
			title:    "Show Runner - Review Required",
			body:     body,
			tags:     []string{"showrunner", "review"},
			priority: "high",
		}, true
	case EventError:
		body := "Error"
		if context := get("context"); context != "" {
			body = fmt.Sprintf("%s with %s", body, context)
		}
		if detail := get("error"); detail != "" {
			body = fmt.Sprintf("%s: %s", body, detail)
		}
		return message{
			title:    "Show Runner - Error",
			body:     body,
			tags:     []string{"showrunner", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Show Runner - Test",
			body:     "Notification system test",
			tags:     []string{"showrunner", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
