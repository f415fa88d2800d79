// Package daemonrun wires up and runs the daemon process: logging, queue
// store, catalogs, stages, IPC server, and signal handling.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"showrunner/internal/config"
	"showrunner/internal/daemon"
	"showrunner/internal/ipc"
	"showrunner/internal/logging"
	"showrunner/internal/notifications"
	"showrunner/internal/outputs"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/scriptgen"
	"showrunner/internal/shows"
	"showrunner/internal/stage"
	"showrunner/internal/videogen"
	"showrunner/internal/voicegen"
	"showrunner/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// Run starts the show runner daemon runtime loop.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("showrunner-%s.log", runID))

	logger, err := logging.New(logging.Options{
		Level:            opts.LogLevel,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logDependencySnapshot(logger, cfg)
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update showrunner.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "showrunner-*.log", Exclude: []string{logPath}},
	)
	pidPath := filepath.Join(cfg.Paths.LogDir, "showrunner.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()

	rosterStore, err := roster.NewStore(cfg.RosterPath(), logger)
	if err != nil {
		return fmt.Errorf("open character roster: %w", err)
	}
	if rosterStore.Count() == 0 {
		if _, err := rosterStore.ImportSeed(); err != nil {
			logger.Warn("seed roster import failed", logging.Error(err))
		}
	}
	catalog, err := shows.NewStore(cfg.ShowsPath(), logger)
	if err != nil {
		return fmt.Errorf("open show catalog: %w", err)
	}

	notifier := notifications.NewService(cfg)
	workflowManager := workflow.NewManagerWithNotifier(cfg, store, logger, notifier)
	registerStages(workflowManager, cfg, store, logger, rosterStore, catalog)

	d, err := daemon.New(cfg, store, logger, workflowManager, rosterStore, catalog, notifier)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed", logging.Error(err))
	}

	<-signalCtx.Done()
	logger.Info("show runner daemon shutting down")
	return nil
}

func registerStages(mgr *workflow.Manager, cfg *config.Config, store *queue.Store, logger *slog.Logger, rosterStore *roster.Store, catalog *shows.Store) {
	if mgr == nil || cfg == nil {
		return
	}

	var renderStage stage.Handler
	if cfg.LTX.Enabled {
		renderStage = videogen.NewStage(cfg, store, logger, catalog)
	}

	mgr.ConfigureStages(workflow.StageSet{
		Scripter: scriptgen.NewStage(cfg, store, logger, rosterStore, catalog),
		Voicer:   voicegen.NewStage(cfg, store, logger, rosterStore),
		Renderer: renderStage,
		Packager: outputs.NewStage(cfg, store, logger),
	})
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "showrunner.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	ffmpeg := cfg.FFmpegBinary()
	ffprobe := cfg.FFprobeBinary()
	logger.Info("dependency snapshot",
		logging.Bool("anthropic_key_present", strings.TrimSpace(cfg.Anthropic.APIKey) != ""),
		logging.Bool("hume_key_present", strings.TrimSpace(cfg.Hume.APIKey) != ""),
		logging.Bool("video_enabled", cfg.LTX.Enabled),
		logging.Bool("ltx_key_present", strings.TrimSpace(cfg.LTX.APIKey) != ""),
		logging.Bool("ffmpeg_available", binaryAvailable(ffmpeg)),
		logging.String("ffmpeg_binary", ffmpeg),
		logging.Bool("ffprobe_available", binaryAvailable(ffprobe)),
		logging.String("ffprobe_binary", ffprobe),
	)
}

func binaryAvailable(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}
