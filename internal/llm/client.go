package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"loom/internal/domain"
	"loom/internal/domain/services"
)

// ClientConfig configures the outbound completion client.
type ClientConfig struct {
	APIKey  string
	BaseURL string        // optional, for OpenAI-compatible endpoints
	Timeout time.Duration // per-request timeout, 0 means 60s
}

// OpenAIClient implements CompletionClient over the OpenAI chat-completions
// API. Every call is a single attempt; SDK retries are disabled so provider
// failures surface to the caller immediately.
type OpenAIClient struct {
	client openai.Client
	logger *slog.Logger
}

// NewOpenAIClient creates a completion client.
func NewOpenAIClient(cfg ClientConfig, logger *slog.Logger) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Generate sends the ordered message list and returns the completion text.
func (c *OpenAIClient) Generate(ctx context.Context, messages []services.Message, params services.ModelParams) (string, error) {
	body := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(params.Model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	if params.MaxTokens > 0 {
		body.MaxTokens = openai.Int(params.MaxTokens)
	}
	body.Temperature = openai.Float(params.Temperature)

	for _, msg := range messages {
		switch msg.Role {
		case services.MessageRoleSystem:
			body.Messages = append(body.Messages, openai.SystemMessage(msg.Content))
		case services.MessageRoleAssistant:
			body.Messages = append(body.Messages, openai.AssistantMessage(msg.Content))
		default:
			body.Messages = append(body.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", c.mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.NewError(domain.ErrUpstream, domain.CodeProviderError,
			"completion response contained no choices")
	}

	answer := resp.Choices[0].Message.Content
	if strings.TrimSpace(answer) == "" {
		return "", domain.NewError(domain.ErrUpstream, domain.CodeProviderError,
			"completion response was empty")
	}

	c.logger.Info("completion generated",
		"model", params.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return answer, nil
}

// mapError translates SDK failures into the domain taxonomy: HTTP 429
// becomes ErrRateLimited, everything else (other statuses, malformed
// bodies, transport errors) becomes ErrUpstream.
func (c *OpenAIClient) mapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusTooManyRequests {
			c.logger.Warn("completion provider rate limited")
			return domain.NewError(domain.ErrRateLimited, domain.CodeProviderRateLimit,
				"completion provider rate limit exceeded")
		}
		c.logger.Error("completion provider error", "status", apierr.StatusCode)
		return domain.NewError(domain.ErrUpstream, domain.CodeProviderError,
			"completion provider returned status %d", apierr.StatusCode)
	}

	c.logger.Error("completion request failed", "error", err)
	return domain.NewError(domain.ErrUpstream, domain.CodeProviderError,
		"completion request failed: %v", err)
}
