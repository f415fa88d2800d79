// Package hume wraps the Hume TTS API used to voice dialogue lines with the
// custom voices configured in the character roster.
package hume

import (
	"bytes"
	"context"
	"encoding/base64"
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

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings required to talk to the TTS API.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the Hume TTS endpoint.
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

// NewClient constructs a TTS client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: services.NewHTTPClient(timeout),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.hume.ai"
	}
	return client
}

type ttsRequest struct {
	Voice ttsVoice `json:"voice"`
	Text  string   `json:"text"`
}

type ttsVoice struct {
	ID string `json:"id"`
}

type ttsResponse struct {
	Audio string `json:"audio"`
}

// Synthesize voices text with the given voice and returns decoded MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	voiceID = strings.TrimSpace(voiceID)
	text = strings.TrimSpace(text)
	if voiceID == "" {
		return nil, errors.New("hume synthesize: voice id required")
	}
	if text == "" {
		return nil, errors.New("hume synthesize: text required")
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("hume synthesize: api key required")
	}

	body, err := json.Marshal(ttsRequest{Voice: ttsVoice{ID: voiceID}, Text: text})
	if err != nil {
		return nil, fmt.Errorf("hume synthesize: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v0/tts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("hume synthesize: build request: %w", err)
	}
	req.Header.Set("X-Hume-Api-Key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("hume", "error").Inc()
		return nil, fmt.Errorf("hume synthesize: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 50<<20))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("hume", "error").Inc()
		return nil, fmt.Errorf("hume synthesize: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.APIRequestsTotal.WithLabelValues("hume", "error").Inc()
		return nil, fmt.Errorf("hume synthesize: http %d: %s", resp.StatusCode, trimBody(raw))
	}

	var decoded ttsResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		metrics.APIRequestsTotal.WithLabelValues("hume", "error").Inc()
		return nil, fmt.Errorf("hume synthesize: parse response: %w", err)
	}
	if decoded.Audio == "" {
		metrics.APIRequestsTotal.WithLabelValues("hume", "error").Inc()
		return nil, errors.New("hume synthesize: response carried no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.Audio)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("hume", "error").Inc()
		return nil, fmt.Errorf("hume synthesize: decode audio: %w", err)
	}

	metrics.APIRequestsTotal.WithLabelValues("hume", "ok").Inc()
	return audio, nil
}

func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
