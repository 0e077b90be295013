// Package ai wraps the OpenAI-compatible chat completion endpoint used for
// lead scoring. Callers treat any error as a signal to fall back to rule-based
// analysis; the client never blocks past its configured timeout.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pulsegraph-io/pulsegraph-stack/common/config"
)

// Completer produces a completion for a prompt. Implemented by Client and by
// test doubles.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls an OpenAI-compatible API (OpenRouter in production).
type Client struct {
	api         *openai.Client
	model       string
	timeout     time.Duration
	maxAttempts int
}

// NewClient builds a client from config. An empty API key is allowed here;
// requests will fail and the caller's fallback path takes over.
func NewClient(cfg config.AIConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		timeout:     timeout,
		maxAttempts: attempts,
	}
}

// Complete sends the prompt as a single user message and returns the first
// choice. Attempts are bounded; context cancellation stops retries early.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		content, err := c.complete(ctx, prompt)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response had no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
