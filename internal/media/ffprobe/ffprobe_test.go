package ffprobe

import (
	"context"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
		},
	}
	if !result.HasVideo() {
		t.Fatal("expected video stream")
	}
	if !result.HasAudio() {
		t.Fatal("expected audio stream")
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
		},
	}
	if result.HasAudio() || result.HasVideo() {
		t.Fatal("expected no streams")
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
