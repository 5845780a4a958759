package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/recon-dashboard/internal/domain/ai"
	domain "github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
	"github.com/bryanwahyu/recon-dashboard/internal/infra/ai/prompt"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "anthropic/claude-3-haiku"
	maxTokens      = 800
	temperature    = 0.3
)

// Client talks to OpenRouter through its OpenAI-compatible API.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, timeout: timeout}
}

func (c *Client) Summarize(ctx context.Context, r *domain.Report) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(r)},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.HTTPStatusCode {
			case http.StatusTooManyRequests, http.StatusPaymentRequired:
				return "", domai.ErrQuotaExceeded
			}
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices in response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("chat completion: empty summary text")
	}
	return summary, nil
}
