package videogen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"showrunner/internal/config"
	"showrunner/internal/logging"
	"showrunner/internal/media/ffmpeg"
	"showrunner/internal/notifications"
	"showrunner/internal/queue"
	"showrunner/internal/services"
	"showrunner/internal/services/ltx"
	"showrunner/internal/services/openai"
	"showrunner/internal/shows"
	"showrunner/internal/stage"
)

// Transcriber produces a timestamped transcript of an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (openai.Transcript, error)
}

// ScenePrompter drafts a visual prompt for one scene.
type ScenePrompter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Renderer submits scene renders and retrieves finished clips.
type Renderer interface {
	Submit(ctx context.Context, req ltx.SceneRequest) (string, error)
	Wait(ctx context.Context, jobID string) (ltx.Job, error)
	Download(ctx context.Context, url, path string) error
}

// Stage implements the rendering stage.
type Stage struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	scriber  Transcriber
	prompter ScenePrompter
	renderer Renderer
	catalog  *shows.Store
	notifier notifications.Service
}

// NewStage constructs the rendering stage using default dependencies.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger, catalog *shows.Store) *Stage {
	openaiClient := openai.NewClient(openai.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		TranscribeModel: cfg.OpenAI.TranscribeModel,
		SceneModel:      cfg.OpenAI.SceneModel,
		TimeoutSeconds:  cfg.OpenAI.TimeoutSeconds,
	})
	ltxClient := ltx.NewClient(ltx.Config{
		APIKey:              cfg.LTX.APIKey,
		BaseURL:             cfg.LTX.BaseURL,
		Model:               cfg.LTX.Model,
		PollIntervalSeconds: cfg.LTX.PollIntervalSeconds,
		JobTimeoutSeconds:   cfg.LTX.JobTimeoutSeconds,
	})
	return NewStageWithDependencies(cfg, store, logger, openaiClient, openaiClient, ltxClient, catalog, notifications.NewService(cfg))
}

// NewStageWithDependencies allows injecting collaborators (used in tests).
func NewStageWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, scriber Transcriber, prompter ScenePrompter, renderer Renderer, catalog *shows.Store, notifier notifications.Service) *Stage {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "videogen"))
	}
	return &Stage{cfg: cfg, store: store, logger: stageLogger, scriber: scriber, prompter: prompter, renderer: renderer, catalog: catalog, notifier: notifier}
}

func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Rendering", "Preparing video rendering")
	if !s.cfg.LTX.Enabled {
		return nil
	}
	if strings.TrimSpace(s.cfg.LTX.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "rendering", "prepare",
			"LTX API key is not configured; set ltx.api_key or add ltx.json to the secrets directory", nil)
	}
	if strings.TrimSpace(s.cfg.OpenAI.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "rendering", "prepare",
			"OpenAI API key is not configured; set openai.api_key or add openai.json to the secrets directory", nil)
	}
	if strings.TrimSpace(item.AudioFile) == "" {
		return services.Wrap(services.ErrValidation, "rendering", "prepare",
			"no audio file present; the voicing stage must run first", nil)
	}
	return nil
}

func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	if !s.cfg.LTX.Enabled {
		item.SetProgressComplete("Rendering", "Video rendering disabled; episode ships audio only")
		logger.Info("video rendering disabled, skipping")
		return nil
	}

	productionDir := filepath.Join(s.cfg.Paths.OutputsDir, item.ProductionDirName())
	videoDir := filepath.Join(productionDir, "video")
	scenesDir := filepath.Join(videoDir, "scenes")
	if err := os.MkdirAll(scenesDir, 0o755); err != nil {
		return services.Wrap(nil, "rendering", "create video dir", "could not create video directory", err)
	}

	item.SetProgress("Rendering", "Transcribing voice track", 5)
	transcript, err := s.scriber.Transcribe(ctx, item.AudioFile)
	if err != nil {
		return services.Wrap(nil, "rendering", "transcribe audio", "transcription failed", err)
	}

	scenes := BuildScenes(transcript.Segments)
	if len(scenes) == 0 {
		return services.Wrap(services.ErrValidation, "rendering", "build scenes",
			"transcript contained no usable segments", nil)
	}
	logger.Info("planned scenes", logging.Int("scene_count", len(scenes)))

	visualStyle := ""
	if show, ok := s.catalog.Get(item.ShowID); ok {
		visualStyle = show.VisualStyle
	}

	scenePaths := make([]string, 0, len(scenes))
	for _, scene := range scenes {
		scenePath := filepath.Join(scenesDir, fmt.Sprintf("%03d.mp4", scene.Index))
		scenePaths = append(scenePaths, scenePath)

		if info, err := os.Stat(scenePath); err == nil && info.Size() > 0 {
			continue
		}

		item.SetProgress("Rendering",
			fmt.Sprintf("Rendering scene %d of %d", scene.Index+1, len(scenes)),
			10+float64(scene.Index)/float64(len(scenes))*80)
		if err := s.store.UpdateProgress(ctx, item); err != nil {
			logger.Warn("progress update failed", logging.Error(err))
		}

		prompt, err := s.prompter.Complete(ctx, scenePromptSystem, ScenePromptInput(visualStyle, scene))
		if err != nil {
			return services.Wrap(nil, "rendering", "draft scene prompt",
				fmt.Sprintf("scene %d prompt drafting failed", scene.Index), err)
		}

		jobID, err := s.renderer.Submit(ctx, ltx.SceneRequest{
			Prompt:          prompt,
			DurationSeconds: scene.DurationSeconds,
		})
		if err != nil {
			return services.Wrap(nil, "rendering", "submit scene",
				fmt.Sprintf("scene %d submission failed", scene.Index), err)
		}
		job, err := s.renderer.Wait(ctx, jobID)
		if err != nil {
			return services.Wrap(nil, "rendering", "render scene",
				fmt.Sprintf("scene %d render failed", scene.Index), err)
		}
		if err := s.renderer.Download(ctx, job.VideoURL, scenePath); err != nil {
			return services.Wrap(nil, "rendering", "download scene",
				fmt.Sprintf("scene %d download failed", scene.Index), err)
		}
	}

	item.SetProgress("Rendering", "Stitching scenes", 92)
	episodePath := filepath.Join(videoDir, "episode.mp4")
	if err := ffmpeg.ConcatVideos(ctx, "ffmpeg", scenePaths, episodePath); err != nil {
		return services.Wrap(services.ErrExternalTool, "rendering", "stitch scenes", "scene assembly failed", err)
	}

	item.SetProgress("Rendering", "Muxing audio", 97)
	finalPath := filepath.Join(videoDir, "final.mp4")
	if err := ffmpeg.MuxAudio(ctx, "ffmpeg", episodePath, item.AudioFile, finalPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "rendering", "mux audio", "final mux failed", err)
	}

	item.VideoFile = finalPath
	item.SetProgressComplete("Rendering", fmt.Sprintf("Rendered %d scenes", len(scenes)))
	logger.Info("episode video rendered",
		logging.Int("scene_count", len(scenes)),
		logging.String("video_file", finalPath))

	if s.notifier != nil {
		payload := notifications.Payload{
			"show":    item.ShowTitle,
			"episode": item.EpisodeTitle,
		}
		if err := s.notifier.Publish(ctx, notifications.EventVideoCompleted, payload); err != nil {
			logger.Warn("video notification failed", logging.Error(err))
		}
	}
	return nil
}

func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if !s.cfg.LTX.Enabled {
		return stage.Healthy("videogen")
	}
	if strings.TrimSpace(s.cfg.LTX.APIKey) == "" {
		return stage.MissingCredential("videogen", "ltx")
	}
	if strings.TrimSpace(s.cfg.OpenAI.APIKey) == "" {
		return stage.MissingCredential("videogen", "openai")
	}
	return stage.Healthy("videogen")
}
