// Package llm adapts OpenAI compatible chat completion APIs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"darion/internal/domain/conversation"
	"darion/internal/infrastructure/logging"
	"darion/internal/infrastructure/metrics"
)

// ErrEmptyResponse is returned when the API answers without choices
var ErrEmptyResponse = errors.New("empty response from model")

// Config describes the model endpoint
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int
	Temperature   float32
	RatePerMinute int
}

// Client sends conversations to a chat completion endpoint
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	limiter     *rate.Limiter
}

// NewClient creates a client. A custom BaseURL allows non-OpenAI providers.
func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	// requests per minute -> tokens per second, burst of one minute's worth
	limit := rate.Inf
	burst := 1
	if cfg.RatePerMinute > 0 {
		limit = rate.Limit(float64(cfg.RatePerMinute) / 60.0)
		burst = cfg.RatePerMinute
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		limiter:     rate.NewLimiter(limit, burst),
	}
}

// Complete returns the model's reply to messages
func (c *Client) Complete(ctx context.Context, messages []conversation.Message) (string, error) {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		metrics.RecordLLMRequest(time.Since(start), false)
		logging.WithContext(ctx).Error("LLM request failed",
			zap.String("model", c.model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecordLLMRequest(time.Since(start), false)
		return "", ErrEmptyResponse
	}

	metrics.RecordLLMRequest(time.Since(start), true)
	logging.WithContext(ctx).Debug("LLM request finished",
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
