package llm

import (
	"context"
	"fmt"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/oreline/oreline-engine/pkg/retry"
)

const anthropicMaxTokens = 1024

// AnthropicClient generates SQL through the Anthropic Messages API.
type AnthropicClient struct {
	client       *anthropic.Client
	model        string
	systemPrompt string
	logger       *zap.Logger
}

// NewAnthropicClient builds an Anthropic-backed client.
func NewAnthropicClient(apiKey, model, systemPrompt string, logger *zap.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &AnthropicClient{
		client:       anthropic.NewClient(apiKey),
		model:        model,
		systemPrompt: systemPrompt,
		logger:       logger.Named("llm"),
	}, nil
}

// GenerateSQL asks the model for a single SELECT statement.
func (c *AnthropicClient) GenerateSQL(ctx context.Context, question, hints string) (string, error) {
	prompt := buildUserPrompt(question, hints)

	start := time.Now()
	resp, err := retry.DoWithResult(ctx, nil, func() (anthropic.MessagesResponse, error) {
		return c.client.CreateMessages(ctx, anthropic.MessagesRequest{
			Model:     anthropic.Model(c.model),
			MaxTokens: anthropicMaxTokens,
			System:    c.systemPrompt,
			Messages: []anthropic.Message{
				{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
					{Type: "text", Text: &prompt},
				}},
			},
		})
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("create messages: %w", err)
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			text = *block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text block in response")
	}

	c.logger.Info("LLM request completed",
		zap.Duration("elapsed", time.Since(start)))

	return ExtractSQL(text), nil
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string { return c.model }
