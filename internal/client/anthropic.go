package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/madmaxieee/cardtext/internal/proto"
)

// anthropic requires max_tokens on every request
const defaultAnthropicMaxTokens = 2048

type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewAnthropicClient(opts ClientOptions) *AnthropicClient {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(reqOpts...)
	return &AnthropicClient{
		client: &client,
		model:  anthropic.Model(opts.ModelName),
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, request proto.Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: defaultAnthropicMaxTokens,
	}
	if request.MaxTokens != nil {
		params.MaxTokens = *request.MaxTokens
	}
	if request.Temperature != nil {
		params.Temperature = anthropic.Float(*request.Temperature)
	}
	for _, m := range request.Messages {
		switch m.Role {
		case proto.RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		case proto.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", errors.New("no response from anthropic")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Count returns the input token count of text as a single user message, using
// the count tokens endpoint. No completion is generated.
func (c *AnthropicClient) Count(ctx context.Context, text string) (int64, error) {
	count, err := c.client.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model: c.model,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("anthropic count tokens: %w", err)
	}
	return count.InputTokens, nil
}
