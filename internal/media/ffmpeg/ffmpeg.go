// Package ffmpeg drives the ffmpeg binary for the assembly steps of the
// pipeline: joining per-line audio into an episode track, stitching scene
// renders, muxing the voice track onto video, detecting silence gaps, and
// cutting social clips.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

func run(ctx context.Context, binary string, args ...string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s %s: %w: %s", binary, args[0], err, tail(string(output)))
	}
	return string(output), nil
}

// tail returns the last few lines of command output for error messages.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, " | ")
}

// ConcatAudio joins the input files in order with a short silence between
// each, encoding the result as MP3 at output. Inputs must already be sorted.
func ConcatAudio(ctx context.Context, binary string, inputs []string, gapSeconds float64, output string) error {
	if len(inputs) == 0 {
		return errors.New("concat audio: no input files")
	}
	dir := filepath.Dir(output)

	silencePath := filepath.Join(dir, "silence.mp3")
	listPath := filepath.Join(dir, "concat_list.txt")
	defer os.Remove(silencePath)
	defer os.Remove(listPath)

	if gapSeconds > 0 && len(inputs) > 1 {
		_, err := run(ctx, binary,
			"-y", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono",
			"-t", strconv.FormatFloat(gapSeconds, 'f', -1, 64),
			"-q:a", "9", silencePath)
		if err != nil {
			return fmt.Errorf("create gap silence: %w", err)
		}
	}

	var list strings.Builder
	for i, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return fmt.Errorf("resolve input path: %w", err)
		}
		fmt.Fprintf(&list, "file '%s'\n", abs)
		if gapSeconds > 0 && i < len(inputs)-1 {
			absSilence, _ := filepath.Abs(silencePath)
			fmt.Fprintf(&list, "file '%s'\n", absSilence)
		}
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	_, err := run(ctx, binary,
		"-y", "-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c:a", "libmp3lame", "-q:a", "2",
		output)
	if err != nil {
		return fmt.Errorf("concat audio: %w", err)
	}
	return nil
}

// ConcatVideos stitches the scene files in order into output without
// re-encoding. Scenes must share codec parameters.
func ConcatVideos(ctx context.Context, binary string, scenes []string, output string) error {
	if len(scenes) == 0 {
		return errors.New("concat videos: no scene files")
	}
	listPath := filepath.Join(filepath.Dir(output), "scenes_list.txt")
	defer os.Remove(listPath)

	var list strings.Builder
	for _, scene := range scenes {
		abs, err := filepath.Abs(scene)
		if err != nil {
			return fmt.Errorf("resolve scene path: %w", err)
		}
		fmt.Fprintf(&list, "file '%s'\n", abs)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write scenes list: %w", err)
	}

	_, err := run(ctx, binary,
		"-y", "-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
		output)
	if err != nil {
		return fmt.Errorf("concat videos: %w", err)
	}
	return nil
}

// MuxAudio replaces the audio of video with the given track, copying the
// video stream and trimming to the shorter of the two.
func MuxAudio(ctx context.Context, binary, video, audio, output string) error {
	_, err := run(ctx, binary,
		"-y",
		"-i", video,
		"-i", audio,
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "copy", "-c:a", "aac",
		"-shortest",
		output)
	if err != nil {
		return fmt.Errorf("mux audio: %w", err)
	}
	return nil
}

// SilenceGap is one detected stretch of silence in an audio file.
type SilenceGap struct {
	Start    float64
	End      float64
	Duration float64
}

var (
	silenceStartRe = regexp.MustCompile(`silence_start: ([\d.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end: ([\d.]+)`)
)

// DetectSilence runs the silencedetect filter and returns gaps of at least
// minGapSeconds. noiseDB is the silence threshold in dBFS, e.g. -50.
func DetectSilence(ctx context.Context, binary, input string, noiseDB float64, minGapSeconds float64) ([]SilenceGap, error) {
	filter := fmt.Sprintf("silencedetect=noise=%gdB:d=%g", noiseDB, minGapSeconds)
	output, err := run(ctx, binary,
		"-i", input,
		"-af", filter,
		"-f", "null", "-")
	if err != nil {
		return nil, fmt.Errorf("detect silence: %w", err)
	}
	return parseSilence(output, minGapSeconds), nil
}

func parseSilence(output string, minGapSeconds float64) []SilenceGap {
	starts := silenceStartRe.FindAllStringSubmatch(output, -1)
	ends := silenceEndRe.FindAllStringSubmatch(output, -1)

	n := len(starts)
	if len(ends) < n {
		n = len(ends)
	}

	var gaps []SilenceGap
	for i := 0; i < n; i++ {
		start, err1 := strconv.ParseFloat(starts[i][1], 64)
		end, err2 := strconv.ParseFloat(ends[i][1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		duration := end - start
		if duration >= minGapSeconds {
			gaps = append(gaps, SilenceGap{Start: start, End: end, Duration: duration})
		}
	}
	return gaps
}

// AspectFilter returns the video filter for cutting a clip in the given
// aspect ratio. Vertical and square formats crop around the center; the
// native 16:9 passes through.
func AspectFilter(aspect string) (string, error) {
	switch aspect {
	case "9:16":
		return "crop=ih*9/16:ih,scale=1080:1920", nil
	case "1:1":
		return "crop=ih:ih,scale=1080:1080", nil
	case "16:9", "":
		return "", nil
	default:
		return "", fmt.Errorf("unsupported aspect ratio %q", aspect)
	}
}

// CutClip extracts a clip of durationSeconds starting at startSeconds from
// input, reframed per aspect. Audio is re-encoded so cuts land cleanly.
func CutClip(ctx context.Context, binary, input, output string, startSeconds, durationSeconds float64, aspect string) error {
	filter, err := AspectFilter(aspect)
	if err != nil {
		return err
	}

	args := []string{
		"-y",
		"-ss", strconv.FormatFloat(startSeconds, 'f', -1, 64),
		"-i", input,
		"-t", strconv.FormatFloat(durationSeconds, 'f', -1, 64),
	}
	if filter != "" {
		args = append(args, "-vf", filter, "-c:v", "libx264", "-preset", "fast")
	} else {
		args = append(args, "-c:v", "copy")
	}
	args = append(args, "-c:a", "aac", output)

	if _, err := run(ctx, binary, args...); err != nil {
		return fmt.Errorf("cut clip: %w", err)
	}
	return nil
}
