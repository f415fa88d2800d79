// Package openai wraps the OpenAI endpoints used by video rendering: Whisper
// transcription of the combined voice track, and chat completions that turn
// transcript segments into scene prompts for the video generator.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"showrunner/internal/metrics"
	"showrunner/internal/services"
)

const defaultHTTPTimeout = 120 * time.Second

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIKey          string
	BaseURL         string
	TranscribeModel string
	SceneModel      string
	TimeoutSeconds  int
}

// Client wraps the transcription and chat completion endpoints.
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

// NewClient constructs a client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:          strings.TrimSpace(cfg.APIKey),
			BaseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TranscribeModel: strings.TrimSpace(cfg.TranscribeModel),
			SceneModel:      strings.TrimSpace(cfg.SceneModel),
			TimeoutSeconds:  cfg.TimeoutSeconds,
		},
		httpClient: services.NewHTTPClient(timeout),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.openai.com"
	}
	if client.cfg.TranscribeModel == "" {
		client.cfg.TranscribeModel = "whisper-1"
	}
	if client.cfg.SceneModel == "" {
		client.cfg.SceneModel = "gpt-4o"
	}
	return client
}

// Segment is one timestamped span of the transcription.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the verbose transcription of an audio file.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Transcribe uploads the audio file and returns its timestamped transcript.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (Transcript, error) {
	if c.cfg.APIKey == "" {
		return Transcript{}, errors.New("openai transcribe: api key required")
	}
	file, err := os.Open(audioPath)
	if err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: open audio: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: copy audio: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.TranscribeModel); err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: build form: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var transcript Transcript
	if err := c.do(req, &transcript); err != nil {
		return Transcript{}, fmt.Errorf("openai transcribe: %w", err)
	}
	return transcript, nil
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

// Complete sends a chat completion request with the scene model and returns
// the reply content.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("openai complete: api key required")
	}
	userPrompt = strings.TrimSpace(userPrompt)
	if userPrompt == "" {
		return "", errors.New("openai complete: user prompt required")
	}

	messages := make([]chatMessage, 0, 2)
	if systemPrompt = strings.TrimSpace(systemPrompt); systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	payload, err := json.Marshal(chatRequest{Model: c.cfg.SceneModel, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("openai complete: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai complete: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	var decoded chatResponse
	if err := c.do(req, &decoded); err != nil {
		return "", fmt.Errorf("openai complete: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("openai complete: empty choices")
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai complete: empty content")
	}
	return content, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("openai", "error").Inc()
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("openai", "error").Inc()
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.APIRequestsTotal.WithLabelValues("openai", "error").Inc()
		body := strings.TrimSpace(string(raw))
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.APIRequestsTotal.WithLabelValues("openai", "error").Inc()
		return fmt.Errorf("parse response: %w", err)
	}
	metrics.APIRequestsTotal.WithLabelValues("openai", "ok").Inc()
	return nil
}
