package qualitycheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showrunner/internal/logging"
	"showrunner/internal/testsupport"
)

type fakeChecker struct {
	issues []string
	err    error
	calls  int
}

func (f *fakeChecker) FactCheck(ctx context.Context, script string) ([]string, error) {
	f.calls++
	return f.issues, f.err
}

// stubSilence installs an ffmpeg stub that prints the given silencedetect
// lines, shadowing any stub installed earlier on PATH.
func stubSilence(t *testing.T, lines ...string) {
	t.Helper()

	binDir := t.TempDir()
	script := "#!/bin/sh\n"
	for _, line := range lines {
		script += "echo '" + line + "' >&2\n"
	}
	script += "exit 0\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

func TestGatePassesOnCleanAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	audio := filepath.Join(t.TempDir(), "combined.mp3")
	testsupport.WriteFile(t, audio, 1024)

	gate := NewGateWithDependencies(cfg, logging.NewNop(), nil)
	result, err := gate.Run(context.Background(), audio, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Passed() {
		t.Fatalf("expected clean audio to pass, got issues %v / %v", result.AudioIssues, result.FactIssues)
	}
}

func TestGateFlagsSilenceGaps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stubSilence(t,
		"[silencedetect @ 0x1] silence_start: 12.5",
		"[silencedetect @ 0x1] silence_end: 19.0 | silence_duration: 6.5",
	)
	audio := filepath.Join(t.TempDir(), "combined.mp3")
	testsupport.WriteFile(t, audio, 1024)

	gate := NewGateWithDependencies(cfg, logging.NewNop(), nil)
	result, err := gate.Run(context.Background(), audio, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Passed() {
		t.Fatal("expected gate to fail on silence gap")
	}
	if len(result.AudioIssues) != 1 {
		t.Fatalf("expected 1 audio issue, got %v", result.AudioIssues)
	}
	if got := result.AudioIssues[0]; got != "silence gap of 6.5s at 12.5s" {
		t.Fatalf("unexpected issue text: %q", got)
	}
	if !strings.Contains(result.Summary(), "silence gap") {
		t.Fatalf("summary missing gap: %q", result.Summary())
	}
}

func TestGateRunsFactCheck(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	audio := filepath.Join(t.TempDir(), "combined.mp3")
	testsupport.WriteFile(t, audio, 1024)
	script := filepath.Join(t.TempDir(), "script.md")
	if err := os.WriteFile(script, []byte("CLAIRE: hello"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	checker := &fakeChecker{issues: []string{"claim about launch date is wrong"}}
	gate := NewGateWithDependencies(cfg, logging.NewNop(), checker)
	result, err := gate.Run(context.Background(), audio, script)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if checker.calls != 1 {
		t.Fatalf("expected 1 fact check call, got %d", checker.calls)
	}
	if result.Passed() {
		t.Fatal("expected gate to fail on fact issues")
	}
	if len(result.FactIssues) != 1 {
		t.Fatalf("expected 1 fact issue, got %v", result.FactIssues)
	}
}

func TestGateToleratesFactCheckOutage(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	audio := filepath.Join(t.TempDir(), "combined.mp3")
	testsupport.WriteFile(t, audio, 1024)
	script := filepath.Join(t.TempDir(), "script.md")
	if err := os.WriteFile(script, []byte("CLAIRE: hello"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	checker := &fakeChecker{err: errors.New("service unavailable")}
	gate := NewGateWithDependencies(cfg, logging.NewNop(), checker)
	result, err := gate.Run(context.Background(), audio, script)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Passed() {
		t.Fatalf("checker outage must not block packaging, got %v", result.FactIssues)
	}
}

func TestGateSkipsFactCheckWithoutChecker(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	audio := filepath.Join(t.TempDir(), "combined.mp3")
	testsupport.WriteFile(t, audio, 1024)

	gate := NewGateWithDependencies(cfg, logging.NewNop(), nil)
	result, err := gate.Run(context.Background(), audio, filepath.Join(t.TempDir(), "missing.md"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.FactIssues) != 0 {
		t.Fatalf("expected no fact issues, got %v", result.FactIssues)
	}
}
