package config

// Default returns a configuration populated with conservative defaults.
// Paths are left in ~-relative form; normalize expands them.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    "~/.local/share/showrunner/data",
			OutputsDir: "~/.local/share/showrunner/outputs",
			AssetsDir:  "~/.local/share/showrunner/characters",
			LogDir:     "~/.local/share/showrunner/logs",
			SecretsDir: "~/.secrets",
			APIBind:    "127.0.0.1:8765",
		},
		Anthropic: Anthropic{
			BaseURL:        "https://api.anthropic.com",
			Model:          "claude-3-5-sonnet-20241022",
			MaxTokens:      8192,
			TimeoutSeconds: 120,
		},
		Hume: Hume{
			BaseURL:         "https://api.hume.ai",
			TimeoutSeconds:  60,
			RateLimitMillis: 500,
		},
		LTX: LTX{
			Enabled:             true,
			BaseURL:             "https://api.ltx.video",
			Model:               "ltx-video",
			PollIntervalSeconds: 5,
			JobTimeoutSeconds:   1200,
		},
		OpenAI: OpenAI{
			BaseURL:         "https://api.openai.com",
			TranscribeModel: "whisper-1",
			SceneModel:      "gpt-4o",
			TimeoutSeconds:  120,
		},
		FactCheck: FactCheck{
			Enabled: false,
			BaseURL: "https://api.perplexity.ai",
			Model:   "sonar",
		},
		Script: Script{
			TargetLines: 50,
		},
		Audio: Audio{
			GapSeconds: 0.3,
			MinBytes:   1000,
		},
		Quality: Quality{
			MinGapSeconds:  5,
			SilenceNoiseDB: -50,
			FactCheck:      false,
		},
		Clips: Clips{
			Enabled:         true,
			MaxClips:        3,
			DurationSeconds: 30,
			AspectRatios:    []string{"9:16"},
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			Production:     true,
			Script:         true,
			Audio:          true,
			Video:          true,
			Errors:         true,
			Review:         true,
		},
		Workflow: Workflow{
			QueuePollInterval:  5,
			ErrorRetryInterval: 30,
			HeartbeatInterval:  15,
			HeartbeatTimeout:   300,
		},
		Logging: Logging{
			Format:        "console",
			Level:         "info",
			RetentionDays: 14,
		},
	}
}
