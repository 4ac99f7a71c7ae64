package chat

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
)

const (
	defaultModel        = "gpt-4o"
	defaultTemperature  = 0.7
	defaultMaxRetries   = 3
	defaultInitialDelay = time.Second
	completionsPath     = "/chat/completions"
)

// ErrNotConfigured is returned when no API key is set
var ErrNotConfigured = errors.New("chat completion API key not configured")

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  float64
	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
}

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	apiKey       string
	endpoint     string
	model        string
	temperature  float64
	maxRetries   int
	initialDelay time.Duration
	http         *http.Client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a chat client
func NewClient(opts Options) *Client {
	c := &Client{
		apiKey:       opts.APIKey,
		endpoint:     strings.TrimRight(opts.BaseURL, "/") + completionsPath,
		model:        opts.Model,
		temperature:  opts.Temperature,
		maxRetries:   opts.MaxRetries,
		initialDelay: opts.InitialDelay,
		http:         &http.Client{Timeout: opts.Timeout},
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.temperature == 0 {
		c.temperature = defaultTemperature
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.initialDelay <= 0 {
		c.initialDelay = defaultInitialDelay
	}
	return c
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete sends one system + user exchange and returns the assistant reply.
// 429, 5xx and transport errors are retried with exponential backoff.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.initialDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		reply, retry, err := c.do(ctx, body)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
	}
	return "", fmt.Errorf("chat completion failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, fmt.Errorf("chat API error (%d): %s", resp.StatusCode, msg)
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", false, errors.New("chat API returned no content")
	}
	return out.Choices[0].Message.Content, false, nil
}
