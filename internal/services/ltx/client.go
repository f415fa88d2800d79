// Package ltx wraps the LTX video generation API. Scene renders are
// asynchronous: a prompt is submitted as a job, polled until it completes,
// and the finished clip downloaded to the production directory.
package ltx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"showrunner/internal/metrics"
	"showrunner/internal/services"
)

// Job statuses reported by the API.
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings required to talk to the API.
type Config struct {
	APIKey              string
	BaseURL             string
	Model               string
	PollIntervalSeconds int
	JobTimeoutSeconds   int
}

// Client wraps the LTX generation endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleeper    func(context.Context, time.Duration) error
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

// WithSleeper overrides how poll waits are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs an LTX client from the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIKey:              strings.TrimSpace(cfg.APIKey),
			BaseURL:             strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:               strings.TrimSpace(cfg.Model),
			PollIntervalSeconds: cfg.PollIntervalSeconds,
			JobTimeoutSeconds:   cfg.JobTimeoutSeconds,
		},
		httpClient: services.NewHTTPClient(defaultHTTPTimeout),
		sleeper:    sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.Model == "" {
		client.cfg.Model = "ltx-video"
	}
	if client.cfg.PollIntervalSeconds <= 0 {
		client.cfg.PollIntervalSeconds = 5
	}
	if client.cfg.JobTimeoutSeconds <= 0 {
		client.cfg.JobTimeoutSeconds = 1200
	}
	return client
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SceneRequest describes one scene render.
type SceneRequest struct {
	Prompt          string `json:"prompt"`
	Model           string `json:"model"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Job is the server-side state of one render.
type Job struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	Error    string `json:"error"`
}

// Submit queues a scene render and returns its job id.
func (c *Client) Submit(ctx context.Context, req SceneRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", errors.New("ltx submit: prompt required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("ltx submit: api key required")
	}
	if req.Model == "" {
		req.Model = c.cfg.Model
	}

	var job Job
	if err := c.postJSON(ctx, "/v1/jobs", req, &job); err != nil {
		return "", fmt.Errorf("ltx submit: %w", err)
	}
	if job.ID == "" {
		return "", errors.New("ltx submit: response carried no job id")
	}
	return job.ID, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return Job{}, errors.New("ltx status: job id required")
	}

	var job Job
	if err := c.getJSON(ctx, "/v1/jobs/"+jobID, &job); err != nil {
		return Job{}, fmt.Errorf("ltx status: %w", err)
	}
	return job, nil
}

// Wait polls the job until it completes, fails, or the configured job
// timeout elapses.
func (c *Client) Wait(ctx context.Context, jobID string) (Job, error) {
	deadline := time.Now().Add(time.Duration(c.cfg.JobTimeoutSeconds) * time.Second)
	interval := time.Duration(c.cfg.PollIntervalSeconds) * time.Second

	for {
		job, err := c.Status(ctx, jobID)
		if err != nil {
			return Job{}, err
		}
		switch job.Status {
		case JobCompleted:
			if job.VideoURL == "" {
				return Job{}, fmt.Errorf("ltx wait: job %s completed without video url", jobID)
			}
			return job, nil
		case JobFailed:
			return Job{}, fmt.Errorf("ltx wait: job %s failed: %s", jobID, job.Error)
		}
		if time.Now().After(deadline) {
			return Job{}, fmt.Errorf("ltx wait: job %s timed out after %ds", jobID, c.cfg.JobTimeoutSeconds)
		}
		if err := c.sleeper(ctx, interval); err != nil {
			return Job{}, err
		}
	}
}

// Download fetches the rendered clip to path.
func (c *Client) Download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ltx download: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ltx download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ltx download: http %d", resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ltx download: create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("ltx download: write file: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("ltx", "error").Inc()
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues("ltx", "error").Inc()
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		metrics.APIRequestsTotal.WithLabelValues("ltx", "error").Inc()
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		metrics.APIRequestsTotal.WithLabelValues("ltx", "error").Inc()
		return fmt.Errorf("parse response: %w", err)
	}
	metrics.APIRequestsTotal.WithLabelValues("ltx", "ok").Inc()
	return nil
}
