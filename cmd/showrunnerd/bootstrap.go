package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"showrunner/internal/config"
	"showrunner/internal/daemonrun"
)

// requiredTools is the fixed runtime tool set the daemon depends on. Both
// binaries ship in the single ffmpeg package installed below.
var requiredTools = []string{"ffmpeg", "ffprobe"}

// installPackages is the fixed package set handed to the system package
// manager when the runtime tools cannot be resolved.
var installPackages = []string{"ffmpeg"}

// entryPointName is the workspace manifest expected next to the executable.
const entryPointName = "showrunner.toml"

type launchOptions struct {
	Headless   bool
	EntryPoint string
}

// bootstrapper prepares the environment and launches the daemon. The hooks
// exist so tests can observe probe/install/launch ordering without touching
// the host system.
type bootstrapper struct {
	lookPath   func(string) (string, error)
	install    func(context.Context) error
	launch     func(context.Context, launchOptions) error
	executable func() (string, error)
}

func newBootstrapper() *bootstrapper {
	b := &bootstrapper{
		lookPath:   exec.LookPath,
		executable: os.Executable,
	}
	b.install = b.installTools
	b.launch = b.launchServer
	return b
}

// run performs the two-step bootstrap: resolve the runtime tools (installing
// the fixed package set once when resolution fails), then launch the server
// against the fixed entry point. Install failures are deliberately not
// caught; an unresolved tool surfaces when the launch step re-resolves it.
func (b *bootstrapper) run(ctx context.Context, entryPointOverride string) error {
	if !b.toolsResolvable() {
		if err := b.install(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warn: dependency install failed: %v\n", err)
		}
	}

	entryPoint := entryPointOverride
	if entryPoint == "" {
		exe, err := b.executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
		entryPoint = filepath.Join(filepath.Dir(exe), entryPointName)
	}
	if _, err := os.Stat(entryPoint); err != nil {
		return fmt.Errorf("entry point %s: %w", entryPoint, err)
	}

	return b.launch(ctx, launchOptions{Headless: true, EntryPoint: entryPoint})
}

func (b *bootstrapper) toolsResolvable() bool {
	for _, tool := range requiredTools {
		if _, err := b.lookPath(tool); err != nil {
			return false
		}
	}
	return true
}

func (b *bootstrapper) installTools(ctx context.Context) error {
	args := append([]string{"install", "-y"}, installPackages...)
	cmd := exec.CommandContext(ctx, "apt-get", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (b *bootstrapper) launchServer(ctx context.Context, opts launchOptions) error {
	// The launch step resolves the tools itself: a failed install above turns
	// into a diagnostic here rather than a silent degraded daemon.
	for _, tool := range requiredTools {
		if _, err := b.lookPath(tool); err != nil {
			return fmt.Errorf("required tool %q not resolvable: %w", tool, err)
		}
	}

	cfg, _, _, err := config.Load(opts.EntryPoint)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	return daemonrun.Run(ctx, cfg, daemonrun.Options{
		LogLevel:    cfg.Logging.Level,
		Development: false,
	})
}
