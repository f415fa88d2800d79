package ffmpeg

import (
	"context"
	"testing"
)

func TestParseSilenceFiltersShortGaps(t *testing.T) {
	output := `
[silencedetect @ 0x55] silence_start: 12.5
[silencedetect @ 0x55] silence_end: 19.0 | silence_duration: 6.5
[silencedetect @ 0x55] silence_start: 40.0
[silencedetect @ 0x55] silence_end: 42.0 | silence_duration: 2.0
`
	gaps := parseSilence(output, 5)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if gaps[0].Start != 12.5 || gaps[0].End != 19.0 {
		t.Fatalf("unexpected gap bounds: %+v", gaps[0])
	}
	if gaps[0].Duration != 6.5 {
		t.Fatalf("unexpected gap duration: %v", gaps[0].Duration)
	}
}

func TestParseSilenceHandlesUnpairedMarkers(t *testing.T) {
	output := "[silencedetect @ 0x55] silence_start: 3.0\n"
	if gaps := parseSilence(output, 1); len(gaps) != 0 {
		t.Fatalf("expected no gaps for unpaired start, got %d", len(gaps))
	}
}

func TestAspectFilter(t *testing.T) {
	tests := []struct {
		aspect  string
		want    string
		wantErr bool
	}{
		{aspect: "9:16", want: "crop=ih*9/16:ih,scale=1080:1920"},
		{aspect: "1:1", want: "crop=ih:ih,scale=1080:1080"},
		{aspect: "16:9", want: ""},
		{aspect: "", want: ""},
		{aspect: "4:3", wantErr: true},
	}
	for _, tc := range tests {
		got, err := AspectFilter(tc.aspect)
		if tc.wantErr {
			if err == nil {
				t.Errorf("AspectFilter(%q) expected error", tc.aspect)
			}
			continue
		}
		if err != nil {
			t.Errorf("AspectFilter(%q) failed: %v", tc.aspect, err)
			continue
		}
		if got != tc.want {
			t.Errorf("AspectFilter(%q) = %q, want %q", tc.aspect, got, tc.want)
		}
	}
}

func TestConcatAudioRejectsEmptyInputs(t *testing.T) {
	if err := ConcatAudio(context.Background(), "ffmpeg", nil, 0.3, "out.mp3"); err == nil {
		t.Fatal("expected error for empty input list")
	}
}

func TestConcatVideosRejectsEmptyInputs(t *testing.T) {
	if err := ConcatVideos(context.Background(), "ffmpeg", nil, "out.mp4"); err == nil {
		t.Fatal("expected error for empty scene list")
	}
}
