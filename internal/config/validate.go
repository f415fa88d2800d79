package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogFormats = map[string]struct{}{
	"":        {},
	"console": {},
	"json":    {},
}

var validLogLevels = map[string]struct{}{
	"":      {},
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures deep inside a stage.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.OutputsDir) == "" {
		problems = append(problems, "paths.outputs_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		problems = append(problems, "paths.log_dir must not be empty")
	}

	if c.Anthropic.MaxTokens <= 0 {
		problems = append(problems, "anthropic.max_tokens must be positive")
	}
	if c.Script.TargetLines <= 0 {
		problems = append(problems, "script.target_lines must be positive")
	}
	if c.Audio.GapSeconds < 0 {
		problems = append(problems, "audio.gap_seconds must not be negative")
	}
	if c.Quality.MinGapSeconds <= 0 {
		problems = append(problems, "quality.min_gap_seconds must be positive")
	}
	if c.Quality.SilenceNoiseDB >= 0 {
		problems = append(problems, "quality.silence_noise_db must be negative (dB threshold)")
	}
	if c.Clips.Enabled {
		if c.Clips.DurationSeconds <= 0 {
			problems = append(problems, "clips.duration_seconds must be positive")
		}
		for _, ratio := range c.Clips.AspectRatios {
			if !isKnownAspectRatio(ratio) {
				problems = append(problems, fmt.Sprintf("clips.aspect_ratios: unsupported ratio %q", ratio))
			}
		}
	}

	if c.Workflow.QueuePollInterval <= 0 {
		problems = append(problems, "workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		problems = append(problems, "workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		problems = append(problems, "workflow.heartbeat_timeout must exceed workflow.heartbeat_interval")
	}

	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		problems = append(problems, fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func isKnownAspectRatio(value string) bool {
	switch strings.TrimSpace(value) {
	case "9:16", "1:1", "16:9":
		return true
	default:
		return false
	}
}
