package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"wikirag/internal/contextutil"
)

// ErrGenerationUnavailable is returned when the generation backend has
// exhausted its retry budget. Callers must treat it as "no answer available"
// and degrade gracefully rather than failing the whole query.
var ErrGenerationUnavailable = errors.New("generation backend unavailable")

// requestTimeout bounds a single generation attempt.
const requestTimeout = 60 * time.Second

// Client is a client for an OpenAI-compatible chat completions API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	backoff BackoffPolicy
	client  *http.Client
}

// NewClient creates a new generation client. A nil policy selects the
// default (3 attempts, 10s apart).
func NewClient(baseURL, apiKey, model string, policy BackoffPolicy) *Client {
	if policy == nil {
		policy = DefaultBackoff()
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		backoff: policy,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model             string        `json:"model"`
	Messages          []ChatMessage `json:"messages"`
	MaxTokens         *int          `json:"max_tokens"`
	Temperature       float32       `json:"temperature"`
	TopP              float32       `json:"top_p"`
	TopK              int           `json:"top_k"`
	RepetitionPenalty float32       `json:"repetition_penalty"`
}

// ChatChoiceMessage represents the message in a chat choice.
type ChatChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int               `json:"index"`
	Message      ChatChoiceMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// Generate sends the prompt as a single user message and returns the first
// choice's content. Any transport error or non-2xx status is retried per the
// backoff policy; once the budget is exhausted the call returns
// ErrGenerationUnavailable wrapping the last failure.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var lastErr error
	attempts := c.backoff.Attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := c.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		logger.WarnContext(ctx, "generation attempt failed", "attempt", attempt, "attempts", attempts, "error", err)

		if attempt == attempts {
			break
		}
		select {
		case <-time.After(c.backoff.Delay(attempt)):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, ctx.Err())
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %w", ErrGenerationUnavailable, attempts, lastErr)
}

// complete performs one chat completion attempt.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	payload := ChatRequest{
		Model: c.Model,
		Messages: []ChatMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature:       0.7,
		TopP:              0.7,
		TopK:              50,
		RepetitionPenalty: 1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}
