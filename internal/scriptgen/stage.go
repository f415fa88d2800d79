package scriptgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"showrunner/internal/config"
	"showrunner/internal/logging"
	"showrunner/internal/notifications"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/services"
	"showrunner/internal/services/anthropic"
	"showrunner/internal/shows"
	"showrunner/internal/stage"
)

// ScriptService generates a script from a prompt.
type ScriptService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Stage implements the scripting stage.
type Stage struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	client   ScriptService
	roster   *roster.Store
	catalog  *shows.Store
	notifier notifications.Service
}

// NewStage constructs the scripting stage using default dependencies.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger, rosterStore *roster.Store, catalog *shows.Store) *Stage {
	client := anthropic.NewClient(anthropic.Config{
		APIKey:         cfg.Anthropic.APIKey,
		BaseURL:        cfg.Anthropic.BaseURL,
		Model:          cfg.Anthropic.Model,
		MaxTokens:      cfg.Anthropic.MaxTokens,
		TimeoutSeconds: cfg.Anthropic.TimeoutSeconds,
	})
	return NewStageWithDependencies(cfg, store, logger, client, rosterStore, catalog, notifications.NewService(cfg))
}

// NewStageWithDependencies allows injecting collaborators (used in tests).
func NewStageWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, client ScriptService, rosterStore *roster.Store, catalog *shows.Store, notifier notifications.Service) *Stage {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "scriptgen"))
	}
	return &Stage{cfg: cfg, store: store, logger: stageLogger, client: client, roster: rosterStore, catalog: catalog, notifier: notifier}
}

func (s *Stage) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)
	item.InitProgress("Scripting", "Preparing script generation")
	if strings.TrimSpace(s.cfg.Anthropic.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "scripting", "prepare",
			"Anthropic API key is not configured; set anthropic.api_key or add anthropic.json to the secrets directory", nil)
	}
	if _, ok := s.catalog.Get(item.ShowID); !ok {
		return services.Wrap(services.ErrNotFound, "scripting", "prepare",
			fmt.Sprintf("show %q is not in the catalog", item.ShowID), nil)
	}
	logger.Info("starting script preparation", logging.String("episode", item.Label()))
	return nil
}

func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	show, ok := s.catalog.Get(item.ShowID)
	if !ok {
		return services.Wrap(services.ErrNotFound, "scripting", "load show",
			fmt.Sprintf("show %q is not in the catalog", item.ShowID), nil)
	}
	cast := s.castFor(show)
	if len(cast) == 0 {
		return services.Wrap(services.ErrValidation, "scripting", "resolve cast",
			"none of the show's cast ids exist in the character roster", nil)
	}
	var narrator *roster.Character
	if show.Narrator != "" {
		if ch, ok := s.roster.Get(show.Narrator); ok {
			narrator = &ch
		}
	}

	productionDir := filepath.Join(s.cfg.Paths.OutputsDir, item.ProductionDirName())
	if err := os.MkdirAll(productionDir, 0o755); err != nil {
		return services.Wrap(nil, "scripting", "create production dir", "could not create production directory", err)
	}

	scriptPath := filepath.Join(productionDir, "script.md")
	script, err := s.loadOrGenerate(ctx, item, show, cast, narrator, scriptPath)
	if err != nil {
		return err
	}

	item.SetProgress("Scripting", "Parsing script", 80)
	lines := ParseScript(script, cast)
	if len(lines) == 0 {
		return services.Wrap(services.ErrValidation, "scripting", "parse script",
			"generated script contained no dialogue lines matching the cast", nil)
	}

	audioDir := filepath.Join(productionDir, "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return services.Wrap(nil, "scripting", "create audio dir", "could not create audio directory", err)
	}
	linesJSON, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return services.Wrap(nil, "scripting", "encode dialogue lines", "could not encode dialogue lines", err)
	}
	linesPath := filepath.Join(audioDir, "dialogue_lines.json")
	if err := os.WriteFile(linesPath, linesJSON, 0o644); err != nil {
		return services.Wrap(nil, "scripting", "write dialogue lines", "could not save dialogue lines", err)
	}

	item.ScriptFile = scriptPath
	item.SetProgressComplete("Scripting", fmt.Sprintf("Script ready with %d dialogue lines", len(lines)))
	logger.Info("script completed",
		logging.Int("dialogue_lines", len(lines)),
		logging.String("script_file", scriptPath))

	if s.notifier != nil {
		payload := notifications.Payload{
			"show":    item.ShowTitle,
			"episode": item.EpisodeTitle,
			"lines":   strconv.Itoa(len(lines)),
		}
		if err := s.notifier.Publish(ctx, notifications.EventScriptCompleted, payload); err != nil {
			logger.Warn("script notification failed", logging.Error(err))
		}
	}
	return nil
}

func (s *Stage) loadOrGenerate(ctx context.Context, item *queue.Item, show shows.Show, cast []roster.Character, narrator *roster.Character, scriptPath string) (string, error) {
	logger := logging.WithContext(ctx, s.logger)

	if data, err := os.ReadFile(scriptPath); err == nil && len(data) > 0 {
		logger.Info("reusing existing script", logging.String("script_file", scriptPath))
		return string(data), nil
	}

	episode := shows.Episode{
		Title: item.EpisodeTitle,
		Topic: item.Topic,
	}
	if item.EpisodeIndex >= 0 && item.EpisodeIndex < len(show.Episodes) {
		episode = show.Episodes[item.EpisodeIndex]
	}

	item.SetProgress("Scripting", "Generating script", 10)
	prompt := BuildPrompt(show, episode, cast, narrator, s.cfg.Script.TargetLines)
	script, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return "", services.Wrap(nil, "scripting", "generate script", "script generation request failed", err)
	}
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return "", services.Wrap(nil, "scripting", "write script", "could not save generated script", err)
	}
	logger.Info("script generated", logging.Int("chars", len(script)))
	return script, nil
}

func (s *Stage) castFor(show shows.Show) []roster.Character {
	cast := make([]roster.Character, 0, len(show.Cast))
	for _, id := range show.Cast {
		if ch, ok := s.roster.Get(id); ok {
			cast = append(cast, ch)
		}
	}
	return cast
}

func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if strings.TrimSpace(s.cfg.Anthropic.APIKey) == "" {
		return stage.MissingCredential("scriptgen", "anthropic")
	}
	return stage.Healthy("scriptgen")
}
