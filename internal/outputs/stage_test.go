package outputs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showrunner/internal/logging"
	"showrunner/internal/notifications"
	"showrunner/internal/qualitycheck"
	"showrunner/internal/queue"
	"showrunner/internal/services"
	"showrunner/internal/testsupport"
)

type fakeGate struct {
	result qualitycheck.Result
	err    error
	calls  int
}

func (f *fakeGate) Run(ctx context.Context, audioPath, scriptPath string) (qualitycheck.Result, error) {
	f.calls++
	return f.result, f.err
}

type recordingNotifier struct {
	events   []notifications.Event
	payloads []notifications.Payload
}

func (r *recordingNotifier) Publish(ctx context.Context, event notifications.Event, payload notifications.Payload) error {
	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)
	return nil
}

func setup(t *testing.T, opts ...testsupport.ConfigOption) (*Stage, *queue.Item, *fakeGate, *recordingNotifier) {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, "AI House", "Move-In Day")

	productionDir := filepath.Join(cfg.Paths.OutputsDir, item.ProductionDirName())
	audio := filepath.Join(productionDir, "audio", "combined.mp3")
	testsupport.WriteFile(t, audio, 2048)
	item.AudioFile = audio

	gate := &fakeGate{}
	notifier := &recordingNotifier{}
	st := NewStageWithDependencies(cfg, store, logging.NewNop(), gate, notifier)
	return st, item, gate, notifier
}

func TestPrepareRequiresAudio(t *testing.T) {
	st, item, _, _ := setup(t)
	item.AudioFile = ""

	err := st.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if services.FailureStatus(err) != queue.StatusReview {
		t.Fatalf("expected review routing, got %v", services.FailureStatus(err))
	}
}

func TestExecutePackagesAudioOnlyEpisode(t *testing.T) {
	st, item, gate, notifier := setup(t)

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if gate.calls != 1 {
		t.Fatalf("expected 1 gate run, got %d", gate.calls)
	}
	productionDir := filepath.Join(st.cfg.Paths.OutputsDir, item.ProductionDirName())
	published := filepath.Join(productionDir, "episode.mp3")
	if item.FinalFile != published {
		t.Fatalf("audio-only episode should publish the audio track, got %q", item.FinalFile)
	}
	if _, err := os.Stat(published); err != nil {
		t.Fatalf("published episode missing: %v", err)
	}
	if item.ClipsDir != "" {
		t.Fatalf("no clips expected without video, got %q", item.ClipsDir)
	}

	manifest, err := ReadManifest(productionDir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if manifest.FinalFile != published || manifest.ShowTitle != "AI House" {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}

	if len(notifier.events) != 1 || notifier.events[0] != notifications.EventEpisodeCompleted {
		t.Fatalf("expected completion event, got %v", notifier.events)
	}
	if notifier.payloads[0]["finalFile"] != published {
		t.Fatalf("completion payload missing final file: %v", notifier.payloads[0])
	}
}

func TestExecuteRoutesQualityIssuesToReview(t *testing.T) {
	st, item, gate, notifier := setup(t)
	gate.result = qualitycheck.Result{AudioIssues: []string{"silence gap of 6.5s at 12.5s"}}

	err := st.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if services.FailureStatus(err) != queue.StatusReview {
		t.Fatalf("expected review routing, got %v", services.FailureStatus(err))
	}
	if item.FinalFile != "" {
		t.Fatalf("final file must not be set on review, got %q", item.FinalFile)
	}
	if len(notifier.events) != 0 {
		t.Fatalf("review routing is the manager's job, got events %v", notifier.events)
	}
	if !strings.Contains(err.Error(), "silence gap") {
		t.Fatalf("review error missing reason: %v", err)
	}
}

func TestExecuteFailsWhenGateErrors(t *testing.T) {
	st, item, gate, _ := setup(t)
	gate.err = errors.New("ffmpeg exploded")

	err := st.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if services.FailureStatus(err) != queue.StatusFailed {
		t.Fatalf("expected failed routing, got %v", services.FailureStatus(err))
	}
}

func TestExecuteCutsClipsForEachAspect(t *testing.T) {
	st, item, _, _ := setup(t)
	st.cfg.Clips.Enabled = true
	st.cfg.Clips.MaxClips = 3
	st.cfg.Clips.DurationSeconds = 30
	st.cfg.Clips.AspectRatios = []string{"9:16", "1:1"}
	stubProbe(t, "65.0")

	productionDir := filepath.Join(st.cfg.Paths.OutputsDir, item.ProductionDirName())
	video := filepath.Join(productionDir, "video", "final.mp4")
	testsupport.WriteFile(t, video, 4096)
	item.VideoFile = video

	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	clipsDir := filepath.Join(productionDir, "clips")
	if item.ClipsDir != clipsDir {
		t.Fatalf("clips dir not recorded, got %q", item.ClipsDir)
	}

	manifest, err := ReadManifest(productionDir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	// 65s at 30s per clip yields 2 positions, each in two aspect ratios.
	if len(manifest.Clips) != 4 {
		t.Fatalf("expected 4 clips, got %v", manifest.Clips)
	}
	if filepath.Base(manifest.Clips[0]) != "clip_01_9x16.mp4" {
		t.Fatalf("unexpected clip name: %s", manifest.Clips[0])
	}
	if manifest.FinalFile != filepath.Join(productionDir, "episode.mp4") {
		t.Fatalf("video episode should publish the video file, got %q", manifest.FinalFile)
	}
}

func TestExecuteToleratesClipFailure(t *testing.T) {
	st, item, _, notifier := setup(t)
	st.cfg.Clips.Enabled = true

	productionDir := filepath.Join(st.cfg.Paths.OutputsDir, item.ProductionDirName())
	video := filepath.Join(productionDir, "video", "final.mp4")
	testsupport.WriteFile(t, video, 4096)
	item.VideoFile = video

	// The stubbed ffprobe prints no JSON, so clip planning fails.
	if err := st.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute should survive clip failure: %v", err)
	}
	if item.ClipsDir != "" {
		t.Fatalf("clips dir must stay empty on clip failure, got %q", item.ClipsDir)
	}
	if item.FinalFile != filepath.Join(productionDir, "episode.mp4") {
		t.Fatalf("episode should still publish, got %q", item.FinalFile)
	}
	if len(notifier.events) != 1 || notifier.events[0] != notifications.EventEpisodeCompleted {
		t.Fatalf("expected completion event, got %v", notifier.events)
	}
}

// stubProbe installs an ffprobe stub reporting the given container duration,
// shadowing the default stub installed by the test config.
func stubProbe(t *testing.T, duration string) {
	t.Helper()

	binDir := t.TempDir()
	script := "#!/bin/sh\n" +
		"cat <<'EOF'\n" +
		"{\"streams\":[{\"index\":0,\"codec_type\":\"video\",\"codec_name\":\"h264\"}]," +
		"\"format\":{\"duration\":\"" + duration + "\"}}\n" +
		"EOF\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(script), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}
