package anthropic

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
	apiVersion         = "2023-06-01"
	defaultModel       = "claude-3-5-sonnet-20241022"
	defaultMaxTokens   = 8192
	defaultHTTPTimeout = 120 * time.Second
)

// Config captures the runtime settings required to talk to the Messages API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int
	TimeoutSeconds int
}

// Client wraps the Anthropic Messages API for script generation.
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

// NewClient constructs a Messages API client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			MaxTokens:      cfg.MaxTokens,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: services.NewHTTPClient(timeout),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.anthropic.com"
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	if client.cfg.MaxTokens <= 0 {
		client.cfg.MaxTokens = defaultMaxTokens
	}
	return client
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt to the model and returns the concatenated text
// blocks of the reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("anthropic complete: prompt required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("anthropic complete: api key required")
	}

	payload := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("anthropic complete: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("anthropic complete: build request: %w", err)
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("anthropic", "error").Inc()
		return "", fmt.Errorf("anthropic complete: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("anthropic", "error").Inc()
		return "", fmt.Errorf("anthropic complete: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.APIRequestsTotal.WithLabelValues("anthropic", "error").Inc()
		return "", fmt.Errorf("anthropic complete: http %d: %s", resp.StatusCode, snippet(raw))
	}

	var decoded messagesResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		metrics.APIRequestsTotal.WithLabelValues("anthropic", "error").Inc()
		return "", fmt.Errorf("anthropic complete: parse response: %w", err)
	}
	if decoded.Error != nil {
		metrics.APIRequestsTotal.WithLabelValues("anthropic", "error").Inc()
		return "", fmt.Errorf("anthropic complete: api error %s: %s", decoded.Error.Type, decoded.Error.Message)
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	result := strings.TrimSpace(text.String())
	if result == "" {
		metrics.APIRequestsTotal.WithLabelValues("anthropic", "error").Inc()
		return "", fmt.Errorf("anthropic complete: empty content (stop_reason=%q)", decoded.StopReason)
	}

	metrics.APIRequestsTotal.WithLabelValues("anthropic", "ok").Inc()
	return result, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
