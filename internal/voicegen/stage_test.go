package voicegen_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"showrunner/internal/config"
	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/scriptgen"
	"showrunner/internal/services"
	"showrunner/internal/testsupport"
	"showrunner/internal/voicegen"
)

type fakeVoicer struct {
	calls int
	err   error
}

func (f *fakeVoicer) Synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio-for-" + voiceID), nil
}

func setup(t *testing.T, voicer voicegen.Voicer) (*voicegen.Stage, *config.Config, *queue.Item, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	store := testsupport.MustOpenStore(t, cfg)

	rosterStore, err := roster.NewStore(filepath.Join(cfg.Paths.DataDir, "characters.json"), nil)
	if err != nil {
		t.Fatalf("roster.NewStore: %v", err)
	}
	for _, ch := range []roster.Character{
		{ID: "claire", Name: "Claire Delish", VoiceID: "voice-claire"},
		{ID: "vv", Name: "VV Steele"}, // no voice id
	} {
		if err := rosterStore.Save(ch); err != nil {
			t.Fatalf("save character: %v", err)
		}
	}

	item, err := store.NewEpisode(context.Background(), "show0001", "AI House", "Move-In Day", 0, "moving in")
	if err != nil {
		t.Fatalf("new episode: %v", err)
	}

	audioDir := filepath.Join(cfg.Paths.OutputsDir, item.ProductionDirName(), "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		t.Fatalf("mkdir audio dir: %v", err)
	}
	item.ScriptFile = filepath.Join(filepath.Dir(audioDir), "script.md")

	st := voicegen.NewStageWithDependencies(cfg, store, nil, voicer, rosterStore, nil)
	return st, cfg, item, audioDir
}

func writeLines(t *testing.T, audioDir string, lines []scriptgen.DialogueLine) {
	t.Helper()
	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		t.Fatalf("marshal lines: %v", err)
	}
	if err := os.WriteFile(filepath.Join(audioDir, "dialogue_lines.json"), data, 0o644); err != nil {
		t.Fatalf("write lines: %v", err)
	}
}

func TestExecuteVoicesLinesAndSkipsMissingVoices(t *testing.T) {
	voicer := &fakeVoicer{}
	st, _, item, audioDir := setup(t, voicer)
	writeLines(t, audioDir, []scriptgen.DialogueLine{
		{Index: 0, CharacterID: "claire", Text: "Good morning!"},
		{Index: 1, CharacterID: "vv", Text: "Darling, the drama."},
		{Index: 2, CharacterID: "claire", Text: "Pancakes?"},
	})

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if voicer.calls != 2 {
		t.Errorf("expected 2 synthesis calls, got %d", voicer.calls)
	}
	for _, name := range []string{"000_claire.mp3", "002_claire.mp3"} {
		if _, err := os.Stat(filepath.Join(audioDir, name)); err != nil {
			t.Errorf("missing line file %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(audioDir, "001_vv.mp3")); !os.IsNotExist(err) {
		t.Error("line without voice id should not produce a file")
	}
	if item.AudioFile != filepath.Join(audioDir, "combined.mp3") {
		t.Errorf("AudioFile = %q", item.AudioFile)
	}
	if item.ProgressPercent != 100 {
		t.Errorf("progress = %v, want 100", item.ProgressPercent)
	}
}

func TestExecuteReusesExistingLineFiles(t *testing.T) {
	voicer := &fakeVoicer{}
	st, cfg, item, audioDir := setup(t, voicer)
	writeLines(t, audioDir, []scriptgen.DialogueLine{
		{Index: 0, CharacterID: "claire", Text: "Good morning!"},
	})

	// Pre-existing file above the minimum size is treated as done.
	big := make([]byte, cfg.Audio.MinBytes+1)
	if err := os.WriteFile(filepath.Join(audioDir, "000_claire.mp3"), big, 0o644); err != nil {
		t.Fatalf("write existing line: %v", err)
	}

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if voicer.calls != 0 {
		t.Errorf("expected 0 synthesis calls, got %d", voicer.calls)
	}
}

func TestExecuteRegeneratesUndersizedFiles(t *testing.T) {
	voicer := &fakeVoicer{}
	st, _, item, audioDir := setup(t, voicer)
	writeLines(t, audioDir, []scriptgen.DialogueLine{
		{Index: 0, CharacterID: "claire", Text: "Good morning!"},
	})

	// A tiny file is a failed earlier synthesis and must be redone.
	if err := os.WriteFile(filepath.Join(audioDir, "000_claire.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write undersized line: %v", err)
	}

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if voicer.calls != 1 {
		t.Errorf("expected 1 synthesis call, got %d", voicer.calls)
	}
}

func TestExecuteFailsWhenNothingVoiced(t *testing.T) {
	voicer := &fakeVoicer{}
	st, _, item, audioDir := setup(t, voicer)
	writeLines(t, audioDir, []scriptgen.DialogueLine{
		{Index: 0, CharacterID: "vv", Text: "No voice configured."},
	})

	err := st.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected error when no lines can be voiced")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}

func TestExecuteSurfacesSynthesisErrors(t *testing.T) {
	voicer := &fakeVoicer{err: fmt.Errorf("quota exhausted")}
	st, _, item, audioDir := setup(t, voicer)
	writeLines(t, audioDir, []scriptgen.DialogueLine{
		{Index: 0, CharacterID: "claire", Text: "Good morning!"},
	})

	err := st.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected synthesis error to surface")
	}
	if services.FailureStatus(err) != queue.StatusFailed {
		t.Fatalf("expected failed status, got %v", services.FailureStatus(err))
	}
}

func TestPrepareRequiresScript(t *testing.T) {
	st, _, item, _ := setup(t, &fakeVoicer{})
	item.ScriptFile = ""
	err := st.Prepare(context.Background(), item)
	if err == nil {
		t.Fatal("expected error without script file")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
}
