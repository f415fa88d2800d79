package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// secretFile is the JSON shape of a per-service credential file in the
// secrets directory. Both "api_key" and "key" are accepted.
type secretFile struct {
	APIKey string `json:"api_key"`
	Key    string `json:"key"`
}

// resolveSecrets fills empty API keys from <secrets_dir>/<service>.json.
// Keys set directly in the TOML win; a missing secrets file is not an error
// because the owning stage reports the absence when it actually needs the key.
func (c *Config) resolveSecrets() error {
	dir := strings.TrimSpace(c.Paths.SecretsDir)
	if dir == "" {
		return nil
	}
	targets := []struct {
		service string
		key     *string
	}{
		{"anthropic", &c.Anthropic.APIKey},
		{"hume", &c.Hume.APIKey},
		{"ltx", &c.LTX.APIKey},
		{"openai", &c.OpenAI.APIKey},
		{"perplexity", &c.FactCheck.APIKey},
	}
	for _, target := range targets {
		if strings.TrimSpace(*target.key) != "" {
			continue
		}
		key, err := readSecret(dir, target.service)
		if err != nil {
			return err
		}
		*target.key = key
	}
	return nil
}

func readSecret(dir, service string) (string, error) {
	path := filepath.Join(dir, service+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read secret %s: %w", service, err)
	}
	var secret secretFile
	if err := json.Unmarshal(data, &secret); err != nil {
		return "", fmt.Errorf("parse secret %s: %w", service, err)
	}
	if key := strings.TrimSpace(secret.APIKey); key != "" {
		return key, nil
	}
	return strings.TrimSpace(secret.Key), nil
}
