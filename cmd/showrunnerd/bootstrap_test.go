package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type bootstrapRecorder struct {
	b      *bootstrapper
	order  []string
	launch []launchOptions

	toolsPresent bool
	installErr   error
}

// newRecorder builds a bootstrapper whose hooks note call order instead of
// touching the host system. The returned exe dir contains the manifest.
func newRecorder(t *testing.T, toolsPresent bool) (*bootstrapRecorder, string) {
	t.Helper()

	exeDir := t.TempDir()
	manifest := filepath.Join(exeDir, entryPointName)
	if err := os.WriteFile(manifest, []byte(""), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	rec := &bootstrapRecorder{toolsPresent: toolsPresent}
	rec.b = &bootstrapper{
		lookPath: func(tool string) (string, error) {
			rec.order = append(rec.order, "probe:"+tool)
			if rec.toolsPresent {
				return "/usr/bin/" + tool, nil
			}
			return "", errors.New("not found")
		},
		install: func(context.Context) error {
			rec.order = append(rec.order, "install")
			if rec.installErr == nil {
				rec.toolsPresent = true
			}
			return rec.installErr
		},
		launch: func(_ context.Context, opts launchOptions) error {
			rec.order = append(rec.order, "launch")
			rec.launch = append(rec.launch, opts)
			return nil
		},
		executable: func() (string, error) {
			return filepath.Join(exeDir, "showrunnerd"), nil
		},
	}
	return rec, exeDir
}

func (r *bootstrapRecorder) installs() int {
	n := 0
	for _, step := range r.order {
		if step == "install" {
			n++
		}
	}
	return n
}

func TestResolvableToolsSkipInstall(t *testing.T) {
	rec, exeDir := newRecorder(t, true)

	if err := rec.b.run(context.Background(), ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rec.installs() != 0 {
		t.Fatalf("no install expected, order: %v", rec.order)
	}
	if len(rec.launch) != 1 {
		t.Fatalf("expected exactly one launch, got %d", len(rec.launch))
	}
	if !rec.launch[0].Headless {
		t.Error("launch must request headless mode")
	}
	if rec.launch[0].EntryPoint != filepath.Join(exeDir, entryPointName) {
		t.Errorf("entry point = %q", rec.launch[0].EntryPoint)
	}
}

func TestMissingToolsInstallOnceThenLaunch(t *testing.T) {
	rec, _ := newRecorder(t, false)

	if err := rec.b.run(context.Background(), ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rec.installs() != 1 {
		t.Fatalf("expected exactly one install, order: %v", rec.order)
	}
	if len(rec.launch) != 1 {
		t.Fatalf("expected exactly one launch, got %d", len(rec.launch))
	}

	sawInstall := false
	for _, step := range rec.order {
		if step == "install" {
			sawInstall = true
		}
		if step == "launch" && !sawInstall {
			t.Fatalf("launch ran before install: %v", rec.order)
		}
	}
}

func TestEntryPointIgnoresWorkingDirectory(t *testing.T) {
	rec, exeDir := newRecorder(t, true)

	otherDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(otherDir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})

	if err := rec.b.run(context.Background(), ""); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rec.launch[0].EntryPoint != filepath.Join(exeDir, entryPointName) {
		t.Errorf("entry point must come from the executable dir, got %q", rec.launch[0].EntryPoint)
	}
}

func TestMissingEntryPointAbortsBeforeLaunch(t *testing.T) {
	rec, exeDir := newRecorder(t, true)
	if err := os.Remove(filepath.Join(exeDir, entryPointName)); err != nil {
		t.Fatalf("remove manifest: %v", err)
	}

	err := rec.b.run(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for missing entry point")
	}
	if len(rec.launch) != 0 {
		t.Fatalf("launch must not run without an entry point, order: %v", rec.order)
	}
}

func TestFailedInstallSurfacesAtLaunch(t *testing.T) {
	rec, _ := newRecorder(t, false)
	rec.installErr = errors.New("network unreachable")
	// The real launch step re-resolves the tools and fails loudly when the
	// install could not provide them.
	rec.b.launch = rec.b.launchServer

	err := rec.b.run(context.Background(), "")
	if err == nil {
		t.Fatal("expected launch to fail after failed install")
	}
	if !strings.Contains(err.Error(), "not resolvable") {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.installs() != 1 {
		t.Fatalf("expected exactly one install attempt, order: %v", rec.order)
	}
}
