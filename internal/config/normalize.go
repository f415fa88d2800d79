package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	pathFields := []struct {
		name  string
		value *string
	}{
		{"data_dir", &c.Paths.DataDir},
		{"outputs_dir", &c.Paths.OutputsDir},
		{"assets_dir", &c.Paths.AssetsDir},
		{"log_dir", &c.Paths.LogDir},
		{"secrets_dir", &c.Paths.SecretsDir},
	}
	for _, field := range pathFields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("expand %s: %w", field.name, err)
		}
		*field.value = expanded
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)

	c.Anthropic.BaseURL = normalizeBaseURL(c.Anthropic.BaseURL)
	c.Hume.BaseURL = normalizeBaseURL(c.Hume.BaseURL)
	c.LTX.BaseURL = normalizeBaseURL(c.LTX.BaseURL)
	c.OpenAI.BaseURL = normalizeBaseURL(c.OpenAI.BaseURL)
	c.FactCheck.BaseURL = normalizeBaseURL(c.FactCheck.BaseURL)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if err := c.resolveSecrets(); err != nil {
		return err
	}
	return nil
}

func normalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}
