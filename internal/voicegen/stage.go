package voicegen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"showrunner/internal/config"
	"showrunner/internal/logging"
	"showrunner/internal/media/ffmpeg"
	"showrunner/internal/notifications"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/scriptgen"
	"showrunner/internal/services"
	"showrunner/internal/services/hume"
	"showrunner/internal/stage"
)

// Voicer synthesizes one dialogue line into audio bytes.
type Voicer interface {
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
}

// Stage implements the voicing stage.
type Stage struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	voicer   Voicer
	roster   *roster.Store
	notifier notifications.Service
}

// NewStage constructs the voicing stage using default dependencies.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger, rosterStore *roster.Store) *Stage {
	client := hume.NewClient(hume.Config{
		APIKey:         cfg.Hume.APIKey,
		BaseURL:        cfg.Hume.BaseURL,
		TimeoutSeconds: cfg.Hume.TimeoutSeconds,
	})
	return NewStageWithDependencies(cfg, store, logger, client, rosterStore, notifications.NewService(cfg))
}

// NewStageWithDependencies allows injecting collaborators (used in tests).
func NewStageWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, voicer Voicer, rosterStore *roster.Store, notifier notifications.Service) *Stage {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "voicegen"))
	}
	return &Stage{cfg: cfg, store: store, logger: stageLogger, voicer: voicer, roster: rosterStore, notifier: notifier}
}

func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Voicing", "Preparing voice synthesis")
	if strings.TrimSpace(s.cfg.Hume.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "voicing", "prepare",
			"Hume API key is not configured; set hume.api_key or add hume.json to the secrets directory", nil)
	}
	if strings.TrimSpace(item.ScriptFile) == "" {
		return services.Wrap(services.ErrValidation, "voicing", "prepare",
			"no script file present; the scripting stage must run first", nil)
	}
	return nil
}

func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	audioDir := filepath.Join(s.cfg.Paths.OutputsDir, item.ProductionDirName(), "audio")
	lines, err := loadDialogueLines(filepath.Join(audioDir, "dialogue_lines.json"))
	if err != nil {
		return services.Wrap(services.ErrValidation, "voicing", "load dialogue lines",
			"dialogue lines are missing or unreadable; re-run the scripting stage", err)
	}
	if len(lines) == 0 {
		return services.Wrap(services.ErrValidation, "voicing", "load dialogue lines",
			"dialogue line file contains no lines", nil)
	}

	var generated []string
	skipped := 0
	for n, line := range lines {
		linePath := filepath.Join(audioDir, fmt.Sprintf("%03d_%s.mp3", line.Index, line.CharacterID))

		if info, err := os.Stat(linePath); err == nil && info.Size() > s.cfg.Audio.MinBytes {
			generated = append(generated, linePath)
			continue
		}

		ch, ok := s.roster.Get(line.CharacterID)
		if !ok || strings.TrimSpace(ch.VoiceID) == "" {
			skipped++
			logger.Warn("skipping line without voice",
				logging.Int("line", line.Index),
				logging.String(logging.FieldCharacter, line.CharacterID),
				logging.String("display_name", s.roster.DisplayName(line.CharacterID)))
			continue
		}

		audio, err := s.voicer.Synthesize(ctx, ch.VoiceID, line.Text)
		if err != nil {
			return services.Wrap(nil, "voicing", "synthesize line",
				fmt.Sprintf("synthesis failed on line %d (%s)", line.Index, line.CharacterID), err)
		}
		if err := os.WriteFile(linePath, audio, 0o644); err != nil {
			return services.Wrap(nil, "voicing", "write line audio", "could not save synthesized audio", err)
		}
		generated = append(generated, linePath)

		item.SetProgress("Voicing",
			fmt.Sprintf("Voiced %d of %d lines", n+1, len(lines)),
			float64(n+1)/float64(len(lines))*90)
		if err := s.store.UpdateProgress(ctx, item); err != nil {
			logger.Warn("progress update failed", logging.Error(err))
		}

		if s.cfg.Hume.RateLimitMillis > 0 && n < len(lines)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(s.cfg.Hume.RateLimitMillis) * time.Millisecond):
			}
		}
	}

	if len(generated) == 0 {
		return services.Wrap(services.ErrValidation, "voicing", "synthesize lines",
			"no lines could be voiced; check that cast members have voice ids", nil)
	}

	item.SetProgress("Voicing", "Combining audio", 95)
	combinedPath := filepath.Join(audioDir, "combined.mp3")
	if err := ffmpeg.ConcatAudio(ctx, "ffmpeg", generated, s.cfg.Audio.GapSeconds, combinedPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "voicing", "combine audio", "audio assembly failed", err)
	}

	item.AudioFile = combinedPath
	item.SetProgressComplete("Voicing", fmt.Sprintf("Voiced %d lines (%d skipped)", len(generated), skipped))
	logger.Info("voice track assembled",
		logging.Int("voiced_lines", len(generated)),
		logging.Int("skipped_lines", skipped),
		logging.String("audio_file", combinedPath))

	if s.notifier != nil {
		payload := notifications.Payload{
			"show":    item.ShowTitle,
			"episode": item.EpisodeTitle,
		}
		if err := s.notifier.Publish(ctx, notifications.EventAudioCompleted, payload); err != nil {
			logger.Warn("audio notification failed", logging.Error(err))
		}
	}
	return nil
}

func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if strings.TrimSpace(s.cfg.Hume.APIKey) == "" {
		return stage.MissingCredential("voicegen", "hume")
	}
	return stage.Healthy("voicegen")
}

func loadDialogueLines(path string) ([]scriptgen.DialogueLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []scriptgen.DialogueLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("parse dialogue lines: %w", err)
	}
	return lines, nil
}
