package scriptgen_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showrunner/internal/queue"
	"showrunner/internal/roster"
	"showrunner/internal/scriptgen"
	"showrunner/internal/services"
	"showrunner/internal/shows"
	"showrunner/internal/testsupport"
)

type fakeScriptService struct {
	script string
	err    error
	calls  int
}

func (f *fakeScriptService) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.script, nil
}

const sampleScript = `[SCENE: Morning in the apartment]

ROXIE (V.O.): It started like any other morning...

CLAIRE: Good morning everyone!

CLAIRE: Who wants pancakes?`

func setupStage(t *testing.T, svc scriptgen.ScriptService) (*scriptgen.Stage, *queue.Store, *queue.Item) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	rosterStore, err := roster.NewStore(filepath.Join(cfg.Paths.DataDir, "characters.json"), nil)
	if err != nil {
		t.Fatalf("roster.NewStore: %v", err)
	}
	for _, ch := range []roster.Character{
		{ID: "claire", Name: "Claire Delish", VoiceProvider: "hume", VoiceID: "v1"},
		{ID: "roxie", Name: "Roxie Rush", VoiceProvider: "hume", VoiceID: "v2"},
	} {
		if err := rosterStore.Save(ch); err != nil {
			t.Fatalf("save character: %v", err)
		}
	}

	catalog, err := shows.NewStore(filepath.Join(cfg.Paths.DataDir, "shows.json"), nil)
	if err != nil {
		t.Fatalf("shows.NewStore: %v", err)
	}
	show, err := catalog.Create(shows.Show{
		Title:    "AI House",
		Format:   "Sitcom / Comedy",
		Cast:     []string{"claire"},
		Narrator: "roxie",
		Episodes: []shows.Episode{{Title: "Move-In Day", Topic: "moving in", Tone: "Comedic"}},
	})
	if err != nil {
		t.Fatalf("create show: %v", err)
	}

	item, err := store.NewEpisode(context.Background(), show.ID, show.Title, "Move-In Day", 0, "moving in")
	if err != nil {
		t.Fatalf("new episode: %v", err)
	}

	st := scriptgen.NewStageWithDependencies(cfg, store, nil, svc, rosterStore, catalog, nil)
	return st, store, item
}

func TestExecuteWritesScriptAndDialogueLines(t *testing.T) {
	svc := &fakeScriptService{script: sampleScript}
	st, _, item := setupStage(t, svc)
	ctx := context.Background()

	if err := st.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := st.Execute(ctx, item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if item.ScriptFile == "" {
		t.Fatal("ScriptFile not set")
	}
	script, err := os.ReadFile(item.ScriptFile)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(script), "CLAIRE: Good morning everyone!") {
		t.Errorf("script content missing dialogue")
	}

	linesPath := filepath.Join(filepath.Dir(item.ScriptFile), "audio", "dialogue_lines.json")
	data, err := os.ReadFile(linesPath)
	if err != nil {
		t.Fatalf("read dialogue lines: %v", err)
	}
	var lines []scriptgen.DialogueLine
	if err := json.Unmarshal(data, &lines); err != nil {
		t.Fatalf("parse dialogue lines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 dialogue lines, got %d", len(lines))
	}
	if item.ProgressPercent != 100 {
		t.Errorf("progress = %v, want 100", item.ProgressPercent)
	}
}

func TestExecuteReusesExistingScript(t *testing.T) {
	svc := &fakeScriptService{script: sampleScript}
	st, _, item := setupStage(t, svc)
	ctx := context.Background()

	if err := st.Execute(ctx, item); err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if err := st.Execute(ctx, item); err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if svc.calls != 1 {
		t.Fatalf("expected 1 generation call, got %d", svc.calls)
	}
}

func TestExecuteRoutesEmptyScriptsToReview(t *testing.T) {
	svc := &fakeScriptService{script: "No dialogue here at all."}
	st, _, item := setupStage(t, svc)

	err := st.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected error for script without dialogue")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if services.FailureStatus(err) != queue.StatusReview {
		t.Fatalf("expected review status, got %v", services.FailureStatus(err))
	}
}

func TestPrepareRequiresAPIKey(t *testing.T) {
	svc := &fakeScriptService{script: sampleScript}
	cfg := testsupport.NewConfig(t, testsupport.WithAnthropicKey(""))
	store := testsupport.MustOpenStore(t, cfg)
	rosterStore, _ := roster.NewStore(filepath.Join(cfg.Paths.DataDir, "characters.json"), nil)
	catalog, _ := shows.NewStore(filepath.Join(cfg.Paths.DataDir, "shows.json"), nil)
	bare := scriptgen.NewStageWithDependencies(cfg, store, nil, svc, rosterStore, catalog, nil)

	other, err := store.NewEpisode(context.Background(), "showid01", "Show", "Ep", 0, "topic")
	if err != nil {
		t.Fatalf("new episode: %v", err)
	}
	prepErr := bare.Prepare(context.Background(), other)
	if prepErr == nil {
		t.Fatal("expected error without api key")
	}
	if !errors.Is(prepErr, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", prepErr)
	}
}
