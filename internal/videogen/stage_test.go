package videogen_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"showrunner/internal/config"
	"showrunner/internal/queue"
	"showrunner/internal/services/ltx"
	"showrunner/internal/services/openai"
	"showrunner/internal/shows"
	"showrunner/internal/testsupport"
	"showrunner/internal/videogen"
)

type fakeTranscriber struct {
	transcript openai.Transcript
	err        error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (openai.Transcript, error) {
	return f.transcript, f.err
}

type fakePrompter struct{ calls int }

func (f *fakePrompter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	return "A sunlit kitchen.", nil
}

type fakeRenderer struct {
	submits   int
	downloads int
}

func (f *fakeRenderer) Submit(ctx context.Context, req ltx.SceneRequest) (string, error) {
	f.submits++
	return fmt.Sprintf("job-%d", f.submits), nil
}

func (f *fakeRenderer) Wait(ctx context.Context, jobID string) (ltx.Job, error) {
	return ltx.Job{ID: jobID, Status: ltx.JobCompleted, VideoURL: "https://cdn.example/" + jobID}, nil
}

func (f *fakeRenderer) Download(ctx context.Context, url, path string) error {
	f.downloads++
	return os.WriteFile(path, []byte("scene"), 0o644)
}

func setup(t *testing.T, cfg *config.Config, scriber videogen.Transcriber, renderer videogen.Renderer) (*videogen.Stage, *queue.Item, *fakePrompter) {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	catalog, err := shows.NewStore(filepath.Join(cfg.Paths.DataDir, "shows.json"), nil)
	if err != nil {
		t.Fatalf("shows.NewStore: %v", err)
	}

	item, err := store.NewEpisode(context.Background(), "show0001", "AI House", "Move-In Day", 0, "moving in")
	if err != nil {
		t.Fatalf("new episode: %v", err)
	}

	audioDir := filepath.Join(cfg.Paths.OutputsDir, item.ProductionDirName(), "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		t.Fatalf("mkdir audio dir: %v", err)
	}
	item.AudioFile = filepath.Join(audioDir, "combined.mp3")
	if err := os.WriteFile(item.AudioFile, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	prompter := &fakePrompter{}
	st := videogen.NewStageWithDependencies(cfg, store, nil, scriber, prompter, renderer, catalog, nil)
	return st, item, prompter
}

func TestExecuteRendersScenesAndMuxes(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	scriber := &fakeTranscriber{transcript: openai.Transcript{
		Segments: []openai.Segment{
			{Start: 0, End: 11, Text: "It started like any other morning."},
			{Start: 11, End: 14, Text: "Then chaos."},
		},
	}}
	renderer := &fakeRenderer{}
	st, item, prompter := setup(t, cfg, scriber, renderer)

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if renderer.submits != 2 || renderer.downloads != 2 {
		t.Errorf("renderer calls = %d submits, %d downloads", renderer.submits, renderer.downloads)
	}
	if prompter.calls != 2 {
		t.Errorf("prompter calls = %d", prompter.calls)
	}
	videoDir := filepath.Join(cfg.Paths.OutputsDir, item.ProductionDirName(), "video")
	for _, name := range []string{"scenes/000.mp4", "scenes/001.mp4"} {
		if _, err := os.Stat(filepath.Join(videoDir, name)); err != nil {
			t.Errorf("missing scene file %s: %v", name, err)
		}
	}
	if item.VideoFile != filepath.Join(videoDir, "final.mp4") {
		t.Errorf("VideoFile = %q", item.VideoFile)
	}
}

func TestExecuteSkipsExistingScenes(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	scriber := &fakeTranscriber{transcript: openai.Transcript{
		Segments: []openai.Segment{{Start: 0, End: 5, Text: "Hello."}},
	}}
	renderer := &fakeRenderer{}
	st, item, _ := setup(t, cfg, scriber, renderer)

	scenesDir := filepath.Join(cfg.Paths.OutputsDir, item.ProductionDirName(), "video", "scenes")
	if err := os.MkdirAll(scenesDir, 0o755); err != nil {
		t.Fatalf("mkdir scenes: %v", err)
	}
	if err := os.WriteFile(filepath.Join(scenesDir, "000.mp4"), []byte("done"), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if renderer.submits != 0 {
		t.Errorf("expected no renders for existing scene, got %d", renderer.submits)
	}
}

func TestExecuteSkipsWhenVideoDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVideoDisabled())
	renderer := &fakeRenderer{}
	st, item, _ := setup(t, cfg, &fakeTranscriber{}, renderer)

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.VideoFile != "" {
		t.Errorf("VideoFile should remain empty, got %q", item.VideoFile)
	}
	if renderer.submits != 0 {
		t.Errorf("renderer should not run when disabled")
	}
	if item.ProgressPercent != 100 {
		t.Errorf("progress = %v, want 100", item.ProgressPercent)
	}
}
