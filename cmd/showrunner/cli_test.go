package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showrunner/internal/outputs"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
)

func TestCLIQueueCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	pending := testsupportNewEpisode(t, env, "House of Bots", "Move-In Day")

	failed := testsupportNewEpisode(t, env, "House of Bots", "The Crash")
	failed.SetFailed("render exploded")
	if err := env.store.Update(ctx, failed); err != nil {
		t.Fatalf("update failed item: %v", err)
	}

	out, _, err := runCLI(t, []string{"queue", "status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	requireContains(t, out, "Pending")
	requireContains(t, out, "Failed")

	out, _, err = runCLI(t, []string{"queue", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	requireContains(t, out, "Move-In Day")
	requireContains(t, out, "The Crash")

	out, _, err = runCLI(t, []string{"queue", "list", "--status", "failed"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue list --status failed: %v", err)
	}
	requireContains(t, out, "The Crash")
	if strings.Contains(out, "Move-In Day") {
		t.Fatalf("expected filtered list to exclude pending item, got %q", out)
	}

	out, _, err = runCLI(t, []string{"queue", "describe", fmt.Sprintf("%d", failed.ID)}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue describe: %v", err)
	}
	requireContains(t, out, "The Crash")
	requireContains(t, out, "render exploded")

	out, _, err = runCLI(t, []string{"queue", "retry", fmt.Sprintf("%d", failed.ID)}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue retry: %v", err)
	}
	requireContains(t, out, "Retried 1 failed items")

	out, _, err = runCLI(t, []string{"queue", "remove", fmt.Sprintf("%d", pending.ID)}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue remove: %v", err)
	}
	requireContains(t, out, "Removed 1 queue items")

	out, _, err = runCLI(t, []string{"queue", "health"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue health: %v", err)
	}
	requireContains(t, out, "Total: 1")
	requireContains(t, out, "Database")

	out, _, err = runCLI(t, []string{"queue", "clear"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 queue items")
}

func TestCLIQueueFallsBackToStoreWhenDaemonOffline(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupportNewEpisode(t, env, "House of Bots", "Move-In Day")

	missingSocket := filepath.Join(t.TempDir(), "missing.sock")
	out, _, err := runCLI(t, []string{"queue", "list"}, missingSocket, env.configPath)
	if err != nil {
		t.Fatalf("queue list offline: %v", err)
	}
	requireContains(t, out, "Move-In Day")
}

func TestCLIProduceCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	show := seedCatalogShow(t, env)

	out, _, err := runCLI(t, []string{"produce", "--show", show.ID, "--episode", "2"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("produce: %v", err)
	}
	requireContains(t, out, "The Crash")
	requireContains(t, out, "episode 2")

	if _, _, err := runCLI(t, []string{"produce", "--show", show.ID, "--episode", "99"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for out-of-range episode")
	}
	if _, _, err := runCLI(t, []string{"produce", "--episode", "1"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for missing --show")
	}
}

func TestCLIShowCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalogShow(t, env)

	out, _, err := runCLI(t, []string{"show", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("show list: %v", err)
	}
	requireContains(t, out, "House of Bots")
	requireContains(t, out, "sitcom")

	missingSocket := filepath.Join(t.TempDir(), "missing.sock")
	out, _, err = runCLI(t, []string{"show", "create", "--title", "Byte Club", "--format", "podcast"}, missingSocket, env.configPath)
	if err != nil {
		t.Fatalf("show create: %v", err)
	}
	requireContains(t, out, "Created show Byte Club")

	showID := ""
	for _, show := range env.catalogReload(t).List() {
		if show.Title == "Byte Club" {
			showID = show.ID
		}
	}
	if showID == "" {
		t.Fatal("created show not found in catalog")
	}

	out, _, err = runCLI(t, []string{"show", "episode", showID, "--title", "Pilot", "--topic", "origins"}, missingSocket, env.configPath)
	if err != nil {
		t.Fatalf("show episode: %v", err)
	}
	requireContains(t, out, "Added episode 1: Pilot")
}

func TestCLICharacterCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	missingSocket := filepath.Join(t.TempDir(), "missing.sock")

	out, _, err := runCLI(t, []string{"character", "add", "--name", "Glitch", "--role", "chaotic roommate", "--voice-provider", "hume", "--voice-id", "v-123"}, missingSocket, env.configPath)
	if err != nil {
		t.Fatalf("character add: %v", err)
	}
	requireContains(t, out, "Saved character Glitch")

	out, _, err = runCLI(t, []string{"character", "list"}, missingSocket, env.configPath)
	if err != nil {
		t.Fatalf("character list: %v", err)
	}
	requireContains(t, out, "Glitch")
	requireContains(t, out, "hume v-123")

	out, _, err = runCLI(t, []string{"character", "remove", "glitch"}, missingSocket, env.configPath)
	if err != nil {
		t.Fatalf("character remove: %v", err)
	}
	requireContains(t, out, "Removed character glitch")

	out, _, err = runCLI(t, []string{"character", "import-ai-house"}, missingSocket, env.configPath)
	if err != nil {
		t.Fatalf("character import-ai-house: %v", err)
	}
	requireContains(t, out, "Imported")
}

func TestCLICharacterListViaDaemon(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := env.roster.Save(roster.Character{ID: "nova", Name: "Nova", Role: "host"}); err != nil {
		t.Fatalf("roster.Save: %v", err)
	}

	out, _, err := runCLI(t, []string{"character", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("character list: %v", err)
	}
	requireContains(t, out, "Nova")
}

func TestCLIOutputsListCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	item := testsupportNewEpisode(t, env, "House of Bots", "Move-In Day")
	item.EpisodeIndex = 1
	item.FinalFile = filepath.Join(env.cfg.Paths.OutputsDir, item.ProductionDirName(), "episode.mp4")
	productionDir := filepath.Join(env.cfg.Paths.OutputsDir, item.ProductionDirName())
	if err := outputs.WriteManifest(productionDir, item, []string{"clip-1.mp4"}); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	out, _, err := runCLI(t, []string{"outputs", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("outputs list: %v", err)
	}
	requireContains(t, out, "House of Bots")
	requireContains(t, out, "Move-In Day")
	requireContains(t, out, "episode.mp4")
}

func TestCLILogsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	logPath := env.cfg.LogFilePath()
	if err := os.WriteFile(logPath, []byte("line one\nline two\nline three\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}

	out, _, err := runCLI(t, []string{"logs", "-n", "2"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "line two")
	requireContains(t, out, "line three")
	if strings.Contains(out, "line one") {
		t.Fatalf("expected only the last two lines, got %q", out)
	}
}

func TestCLITestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "not configured")
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, filepath.Join(t.TempDir(), "missing.sock"), "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, filepath.Join(t.TempDir(), "missing.sock"), ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

// testsupportNewEpisode seeds a queue item through the shared env store.
func testsupportNewEpisode(t *testing.T, env *cliTestEnv, showTitle, episodeTitle string) *queue.Item {
	t.Helper()
	item, err := env.store.NewEpisode(context.Background(), "show-1", showTitle, episodeTitle, 1, "")
	if err != nil {
		t.Fatalf("NewEpisode: %v", err)
	}
	return item
}
