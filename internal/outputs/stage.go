// Package outputs implements the packaging stage: the rendered episode is
// run through the quality gate, social clips are cut from the final video,
// and a production manifest is written next to the artifacts.
package outputs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"showrunner/internal/config"
	"showrunner/internal/fileutil"
	"showrunner/internal/logging"
	"showrunner/internal/notifications"
	"showrunner/internal/preflight"
	"showrunner/internal/qualitycheck"
	"showrunner/internal/queue"
	"showrunner/internal/services"
	"showrunner/internal/stage"
)

// Gate runs the pre-packaging quality checks.
type Gate interface {
	Run(ctx context.Context, audioPath, scriptPath string) (qualitycheck.Result, error)
}

// Stage implements the packaging stage.
type Stage struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	gate     Gate
	notifier notifications.Service
}

// NewStage constructs the packaging stage using default dependencies.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	return NewStageWithDependencies(cfg, store, logger,
		qualitycheck.NewGate(cfg, logger), notifications.NewService(cfg))
}

// NewStageWithDependencies allows injecting collaborators (used in tests).
func NewStageWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, gate Gate, notifier notifications.Service) *Stage {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "outputs"))
	}
	return &Stage{cfg: cfg, store: store, logger: stageLogger, gate: gate, notifier: notifier}
}

// minFreeBytes is the disk headroom required before packaging starts.
const minFreeBytes = 256 << 20

func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Packaging", "Preparing packaging")
	if strings.TrimSpace(item.AudioFile) == "" {
		return services.Wrap(services.ErrValidation, "packaging", "prepare",
			"no audio track present; the voicing stage must run first", nil)
	}
	if result := preflight.CheckDirectoryAccess("Outputs", s.cfg.Paths.OutputsDir); !result.Passed {
		return services.Wrap(services.ErrConfiguration, "packaging", "prepare", result.Detail, nil)
	}
	if result := preflight.CheckFreeSpace("Outputs", s.cfg.Paths.OutputsDir, minFreeBytes); !result.Passed {
		return services.Wrap(services.ErrValidation, "packaging", "prepare", result.Detail, nil)
	}
	return nil
}

func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)
	productionDir := filepath.Join(s.cfg.Paths.OutputsDir, item.ProductionDirName())

	item.SetProgress("Packaging", "Running quality checks", 10)
	result, err := s.gate.Run(ctx, item.AudioFile, item.ScriptFile)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "packaging", "quality gate",
			"quality analysis failed", err)
	}
	if !result.Passed() {
		return services.Wrap(services.ErrValidation, "packaging", "quality gate", result.Summary(), nil)
	}

	sourceFile := item.VideoFile
	if strings.TrimSpace(sourceFile) == "" {
		sourceFile = item.AudioFile
	}

	item.SetProgress("Packaging", "Publishing episode", 30)
	if err := os.MkdirAll(productionDir, 0o755); err != nil {
		return services.Wrap(nil, "packaging", "publish",
			"could not create the production output directory", err)
	}
	finalFile := filepath.Join(productionDir, "episode"+filepath.Ext(sourceFile))
	if err := fileutil.CopyFileVerified(sourceFile, finalFile); err != nil {
		return services.Wrap(nil, "packaging", "publish",
			"could not copy the episode into the outputs directory", err)
	}

	var clips []string
	if s.cfg.Clips.Enabled && strings.TrimSpace(item.VideoFile) != "" {
		item.SetProgress("Packaging", "Cutting clips", 40)
		clipsDir := filepath.Join(productionDir, "clips")
		clips, err = CutClips(ctx, s.cfg, item.VideoFile, clipsDir)
		if err != nil {
			// Clips are a bonus artifact; losing them must not discard a
			// finished episode.
			logger.Warn("clip cutting failed", logging.Error(err))
			clips = nil
		} else if len(clips) > 0 {
			item.ClipsDir = clipsDir
		}
	}

	item.SetProgress("Packaging", "Writing manifest", 80)
	item.FinalFile = finalFile
	if err := WriteManifest(productionDir, item, clips); err != nil {
		return services.Wrap(nil, "packaging", "write manifest",
			"could not save the production manifest", err)
	}

	item.SetProgressComplete("Packaging",
		fmt.Sprintf("Episode packaged: %s", filepath.Base(finalFile)))
	logger.Info("episode packaged",
		logging.String("final_file", finalFile),
		logging.Int("clip_count", len(clips)))

	if s.notifier != nil {
		payload := notifications.Payload{
			"show":      item.ShowTitle,
			"episode":   item.EpisodeTitle,
			"finalFile": finalFile,
		}
		if err := s.notifier.Publish(ctx, notifications.EventEpisodeCompleted, payload); err != nil {
			logger.Warn("completion notification failed", logging.Error(err))
		}
	}
	return nil
}

func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("outputs")
}
