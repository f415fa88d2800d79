package deps

import (
	"context"
	"os/exec"
	"strings"

	"showrunner/internal/config"
)

// Requirements returns the external binary requirements for the configured
// pipeline. ffmpeg and ffprobe are mandatory; everything else the pipeline
// consumes is a hosted API.
func Requirements(cfg *config.Config) []Requirement {
	ffmpeg := "ffmpeg"
	ffprobe := "ffprobe"
	if cfg != nil {
		ffmpeg = cfg.FFmpegBinary()
		ffprobe = cfg.FFprobeBinary()
	}
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpeg, Description: "Audio and video assembly"},
		{Name: "FFprobe", Command: ffprobe, Description: "Media inspection and validation"},
	}
}

// FFmpegVersion runs `ffmpeg -version` and returns the first line of output.
// Returns an empty string when the binary is unavailable or produces nothing.
func FFmpegVersion(ctx context.Context, binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return ""
	}
	out, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	lines := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}
