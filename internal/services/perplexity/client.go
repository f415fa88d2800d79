// Package perplexity wraps the Perplexity chat API used by the quality gate
// to fact-check scripts before packaging. A reply containing VERIFIED means
// no issues were found.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"showrunner/internal/metrics"
	"showrunner/internal/services"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	// Scripts are truncated before submission to stay inside the model's
	// context window, matching the original checker's cutoff.
	maxScriptChars = 8000
)

const factCheckPrompt = `Fact-check this script. Look for:
1. Incorrect dates or years
2. Wrong facts about people or places
3. Misattributed quotes or achievements
4. Historical inaccuracies

If you find errors, list each one clearly.
If everything is accurate, respond with just: VERIFIED

Script:
`

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client wraps the Perplexity chat completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a fact-check client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:   strings.TrimSpace(cfg.Model),
		},
		httpClient: services.NewHTTPClient(defaultHTTPTimeout),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.perplexity.ai"
	}
	if client.cfg.Model == "" {
		client.cfg.Model = "sonar"
	}
	return client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// FactCheck submits the script for verification. It returns nil when the
// model responds VERIFIED, otherwise the issues it reported.
func (c *Client) FactCheck(ctx context.Context, script string) ([]string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, errors.New("perplexity fact check: script required")
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("perplexity fact check: api key required")
	}
	if len(script) > maxScriptChars {
		script = script[:maxScriptChars]
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: factCheckPrompt + script},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("perplexity fact check: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("perplexity fact check: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("perplexity", "error").Inc()
		return nil, fmt.Errorf("perplexity fact check: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("perplexity", "error").Inc()
		return nil, fmt.Errorf("perplexity fact check: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.APIRequestsTotal.WithLabelValues("perplexity", "error").Inc()
		return nil, fmt.Errorf("perplexity fact check: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		metrics.APIRequestsTotal.WithLabelValues("perplexity", "error").Inc()
		return nil, fmt.Errorf("perplexity fact check: parse response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		metrics.APIRequestsTotal.WithLabelValues("perplexity", "error").Inc()
		return nil, errors.New("perplexity fact check: empty choices")
	}
	metrics.APIRequestsTotal.WithLabelValues("perplexity", "ok").Inc()

	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if strings.Contains(strings.ToUpper(content), "VERIFIED") {
		return nil, nil
	}
	return []string{content}, nil
}
