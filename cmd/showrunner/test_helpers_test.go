package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showrunner/internal/config"
	"showrunner/internal/daemon"
	"showrunner/internal/ipc"
	"showrunner/internal/logging"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/shows"
	"showrunner/internal/stage"
	"showrunner/internal/testsupport"
	"showrunner/internal/workflow"
)

type noopStage struct{}

func (noopStage) Prepare(context.Context, *queue.Item) error { return nil }
func (noopStage) Execute(context.Context, *queue.Item) error { return nil }
func (noopStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("noop")
}

type cliTestEnv struct {
	cfg        *config.Config
	store      *queue.Store
	roster     *roster.Store
	catalog    *shows.Store
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	cancel     context.CancelFunc
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	rosterStore, err := roster.NewStore(cfg.RosterPath(), logger)
	if err != nil {
		t.Fatalf("roster.NewStore: %v", err)
	}
	catalog, err := shows.NewStore(cfg.ShowsPath(), logger)
	if err != nil {
		t.Fatalf("shows.NewStore: %v", err)
	}

	mgr := workflow.NewManager(cfg, store, logger)
	mgr.ConfigureStages(workflow.StageSet{
		Scripter: noopStage{},
		Voicer:   noopStage{},
		Packager: noopStage{},
	})

	d, err := daemon.New(cfg, store, logger, mgr, rosterStore, catalog, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socketPath := filepath.Join(cfg.Paths.LogDir, "cli.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logger)
	if err != nil {
		cancel()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env := &cliTestEnv{
		cfg:        cfg,
		store:      store,
		roster:     rosterStore,
		catalog:    catalog,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\noutputs_dir = %q\nassets_dir = %q\nlog_dir = %q\nsecrets_dir = %q\napi_bind = %q\n\n[anthropic]\napi_key = \"test\"\n\n[hume]\napi_key = \"test\"\n",
		cfg.Paths.DataDir,
		cfg.Paths.OutputsDir,
		cfg.Paths.AssetsDir,
		cfg.Paths.LogDir,
		cfg.Paths.SecretsDir,
		cfg.Paths.APIBind,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func seedCatalogShow(t *testing.T, env *cliTestEnv) shows.Show {
	t.Helper()
	show, err := env.catalog.Create(shows.Show{
		Title:       "House of Bots",
		Description: "Six AI roommates share a house",
		Format:      "sitcom",
		Episodes: []shows.Episode{
			{Title: "Move-In Day", Topic: "the bots move in"},
			{Title: "The Crash", Topic: "the house server crashes"},
		},
	})
	if err != nil {
		t.Fatalf("catalog.Create: %v", err)
	}
	return show
}

// catalogReload opens a fresh show store so tests observe writes made by CLI
// commands through their own store instances.
func (env *cliTestEnv) catalogReload(t *testing.T) *shows.Store {
	t.Helper()
	store, err := shows.NewStore(env.cfg.ShowsPath(), logging.NewNop())
	if err != nil {
		t.Fatalf("reload show store: %v", err)
	}
	return store
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
