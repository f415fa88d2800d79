package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	OutputsDir string `toml:"outputs_dir"`
	AssetsDir  string `toml:"assets_dir"`
	LogDir     string `toml:"log_dir"`
	SecretsDir string `toml:"secrets_dir"`
	APIBind    string `toml:"api_bind"`
	APIToken   string `toml:"api_token"`
}

// Anthropic contains configuration for script generation via the Anthropic
// Messages API.
type Anthropic struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Hume contains configuration for voice synthesis via the Hume TTS API.
type Hume struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	RateLimitMillis int    `toml:"rate_limit_millis"`
}

// LTX contains configuration for scene video generation.
type LTX struct {
	Enabled             bool   `toml:"enabled"`
	APIKey              string `toml:"api_key"`
	BaseURL             string `toml:"base_url"`
	Model               string `toml:"model"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	JobTimeoutSeconds   int    `toml:"job_timeout_seconds"`
}

// OpenAI contains configuration for transcription and scene prompt drafting.
type OpenAI struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	TranscribeModel string `toml:"transcribe_model"`
	SceneModel      string `toml:"scene_model"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// FactCheck contains configuration for script fact checking via Perplexity.
type FactCheck struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Script contains configuration for script generation output.
type Script struct {
	TargetLines int `toml:"target_lines"`
}

// Audio contains configuration for per-line audio synthesis and assembly.
type Audio struct {
	// GapSeconds is the silence inserted between dialogue lines when
	// combining per-line audio into a single track.
	GapSeconds float64 `toml:"gap_seconds"`
	// MinBytes is the size below which an existing line file is treated as
	// a failed synthesis and regenerated.
	MinBytes int64 `toml:"min_bytes"`
}

// Quality contains configuration for the pre-packaging quality gate.
type Quality struct {
	// MinGapSeconds is the silence duration that blocks packaging.
	MinGapSeconds  int  `toml:"min_gap_seconds"`
	SilenceNoiseDB int  `toml:"silence_noise_db"`
	FactCheck      bool `toml:"fact_check"`
}

// Clips contains configuration for social clip cutting.
type Clips struct {
	Enabled         bool     `toml:"enabled"`
	MaxClips        int      `toml:"max_clips"`
	DurationSeconds int      `toml:"duration_seconds"`
	AspectRatios    []string `toml:"aspect_ratios"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Production     bool   `toml:"production"`
	Script         bool   `toml:"script"`
	Audio          bool   `toml:"audio"`
	Video          bool   `toml:"video"`
	Errors         bool   `toml:"errors"`
	Review         bool   `toml:"review"`
}

// Workflow contains configuration for daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for show-runner.
//
// Configuration sections by subsystem:
//   - Paths: data/outputs/log directories, secrets dir, API bind address
//   - Anthropic: script generation
//   - Hume: character voice synthesis
//   - LTX: scene video generation
//   - OpenAI: transcription and scene prompt drafting
//   - FactCheck: Perplexity script verification
//   - Script/Audio/Quality/Clips: pipeline stage tuning
//   - Notifications: ntfy push notification settings
//   - Workflow: daemon polling intervals and timeouts
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Anthropic     Anthropic     `toml:"anthropic"`
	Hume          Hume          `toml:"hume"`
	LTX           LTX           `toml:"ltx"`
	OpenAI        OpenAI        `toml:"openai"`
	FactCheck     FactCheck     `toml:"fact_check"`
	Script        Script        `toml:"script"`
	Audio         Audio         `toml:"audio"`
	Quality       Quality       `toml:"quality"`
	Clips         Clips         `toml:"clips"`
	Notifications Notifications `toml:"notifications"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/showrunner/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded, secrets resolved, and defaults filled.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("showrunner.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// OutputsDir is created on a best-effort basis so the daemon can run while
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.AssetsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputsDir) != "" {
		_ = os.MkdirAll(c.Paths.OutputsDir, 0o755)
	}
	return nil
}

// SocketPath returns the Unix socket the daemon listens on for IPC.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.DataDir, "showrunnerd.sock")
}

// LockFilePath returns the lock file enforcing a single daemon instance.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.DataDir, "showrunnerd.lock")
}

// QueueDatabasePath returns the SQLite file backing the production queue.
func (c *Config) QueueDatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "queue.db")
}

// LogFilePath returns the daemon log file.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "showrunner.log")
}

// RosterPath returns the JSON file holding the character roster.
func (c *Config) RosterPath() string {
	return filepath.Join(c.Paths.DataDir, "characters.json")
}

// ShowsPath returns the JSON file holding the show catalog.
func (c *Config) ShowsPath() string {
	return filepath.Join(c.Paths.DataDir, "shows.json")
}

// FFmpegBinary returns the ffmpeg executable name used for audio and video assembly.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media validation.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
