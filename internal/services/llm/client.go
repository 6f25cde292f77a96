package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"contentprep/internal/services"
)

const (
	jsonResponseType   = "json_object"
	defaultBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultHTTPTimeout = 15 * time.Second
)

// DefaultModel orders filenames when llm.model is unset.
const DefaultModel = "google/gemini-3-flash-preview"

// Config captures the OpenRouter account and model used for ordering.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Request is one JSON-only chat completion. Op names the caller's operation
// in errors, for example "suggest order".
type Request struct {
	Op     string
	System string
	User   string
}

// Client asks an OpenRouter model to order filenames.
type Client struct {
	cfg   Config
	http  *http.Client
	retry retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithRetryMaxAttempts caps the attempts per request; one disables retries.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) { c.retry.attempts = attempts }
}

// WithRetryBackoff sets the first retry delay and the ceiling it doubles to.
func WithRetryBackoff(base, ceiling time.Duration) Option {
	return func(c *Client) {
		c.retry.base = base
		c.retry.ceiling = ceiling
	}
}

// WithSleeper replaces the retry wait, mostly for tests.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) { c.retry.sleeper = sleeper }
}

// NewClient builds a client. Blank settings fall back to the public
// OpenRouter endpoint and DefaultModel.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg = Config{
		APIKey:         strings.TrimSpace(cfg.APIKey),
		BaseURL:        strings.TrimSpace(cfg.BaseURL),
		Model:          strings.TrimSpace(cfg.Model),
		Referer:        strings.TrimSpace(cfg.Referer),
		Title:          strings.TrimSpace(cfg.Title),
		TimeoutSeconds: cfg.TimeoutSeconds,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: timeout},
		retry: defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model requests are sent to.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends req and returns the model's JSON text, retrying throttled
// or empty answers. Failures carry services.ErrExternal or ErrTimeout.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	req.Op = strings.TrimSpace(req.Op)
	if req.Op == "" {
		req.Op = "complete"
	}
	req.System = strings.TrimSpace(req.System)
	req.User = strings.TrimSpace(req.User)
	switch {
	case c.cfg.APIKey == "":
		return "", services.Wrap(services.ErrConfiguration, "llm", req.Op, "api key is required", nil)
	case req.System == "":
		return "", services.Wrap(services.ErrValidation, "llm", req.Op, "system prompt is required", nil)
	case req.User == "":
		return "", services.Wrap(services.ErrValidation, "llm", req.Op, "user prompt is required", nil)
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}
	attempts := max(c.retry.attempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		answer, err := c.post(ctx, req.Op, payload)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		delay, again := c.retry.next(ctx, err, attempt)
		if !again {
			return "", classify(req.Op, err)
		}
		if err := c.retry.wait(ctx, delay); err != nil {
			return "", classify(req.Op, err)
		}
	}
	return "", classify(req.Op, fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr))
}

// HealthCheck sends a tiny request to confirm the key and model answer.
func (c *Client) HealthCheck(ctx context.Context) error {
	answer, err := c.Complete(ctx, Request{
		Op:     "health check",
		System: "You must respond with JSON only.",
		User:   `Respond with {"ok":true}`,
	})
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(answer, &parsed); err != nil {
		return services.Wrap(services.ErrExternal, "llm", "health check", "unreadable answer", err)
	}
	if !parsed.OK {
		return services.Wrap(services.ErrExternal, "llm", "health check", "model did not confirm", nil)
	}
	return nil
}
