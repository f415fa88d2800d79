package outputs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"showrunner/internal/config"
	"showrunner/internal/media/ffmpeg"
	"showrunner/internal/media/ffprobe"
)

// CutClips slices the episode video into short clips, one set per configured
// aspect ratio, and returns the paths of the clips it produced.
func CutClips(ctx context.Context, cfg *config.Config, videoPath, clipsDir string) ([]string, error) {
	probe, err := ffprobe.Inspect(ctx, "ffprobe", videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe episode video: %w", err)
	}
	duration := probe.DurationSeconds()
	clipSeconds := float64(cfg.Clips.DurationSeconds)
	offsets := clipOffsets(duration, cfg.Clips.MaxClips, clipSeconds)
	if len(offsets) == 0 {
		return nil, nil
	}

	aspects := cfg.Clips.AspectRatios
	if len(aspects) == 0 {
		aspects = []string{"16:9"}
	}

	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create clips directory: %w", err)
	}

	var clips []string
	for i, offset := range offsets {
		for _, aspect := range aspects {
			output := filepath.Join(clipsDir,
				fmt.Sprintf("clip_%02d_%s.mp4", i+1, aspectLabel(aspect)))
			if err := ffmpeg.CutClip(ctx, "ffmpeg", videoPath, output, offset, clipSeconds, aspect); err != nil {
				return clips, fmt.Errorf("cut clip %d (%s): %w", i+1, aspect, err)
			}
			clips = append(clips, output)
		}
	}
	return clips, nil
}

// clipOffsets spreads up to maxClips start positions over the episode so the
// clips sample the beginning, middle, and end rather than only the opening.
func clipOffsets(totalSeconds float64, maxClips int, clipSeconds float64) []float64 {
	if totalSeconds <= 0 || maxClips <= 0 || clipSeconds <= 0 {
		return nil
	}
	count := int(totalSeconds / clipSeconds)
	if count < 1 {
		count = 1
	}
	if count > maxClips {
		count = maxClips
	}

	usable := totalSeconds - clipSeconds
	if usable < 0 {
		usable = 0
	}
	offsets := make([]float64, count)
	if count == 1 {
		offsets[0] = usable / 2
		return offsets
	}
	step := usable / float64(count-1)
	for i := range offsets {
		offsets[i] = step * float64(i)
	}
	return offsets
}

func aspectLabel(aspect string) string {
	label := strings.ReplaceAll(strings.TrimSpace(aspect), ":", "x")
	if label == "" {
		return "16x9"
	}
	return label
}
