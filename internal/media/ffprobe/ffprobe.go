// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The pipeline uses it to verify assembled artifacts: the combined voice
// track must carry audio, scene renders must carry video, and the final mux
// must carry both. Probe durations also drive clip placement.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Result is the parsed ffprobe inspection of one media file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response. An empty binary falls back to "ffprobe" on PATH.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// HasAudio reports whether the container carries at least one audio stream.
func (r Result) HasAudio() bool {
	return r.streamCount("audio") > 0
}

// HasVideo reports whether the container carries at least one video stream.
func (r Result) HasVideo() bool {
	return r.streamCount("video") > 0
}

func (r Result) streamCount(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when the
// field is missing or unparsable.
func (r Result) DurationSeconds() float64 {
	value := strings.TrimSpace(r.Format.Duration)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// SizeBytes returns the reported container size, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	value := strings.TrimSpace(r.Format.Size)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
