package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/madmaxieee/cardtext/internal/convert"
	"github.com/madmaxieee/cardtext/internal/proto"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	_ convert.Generator = (*Client)(nil)
	_ convert.Generator = (*AnthropicClient)(nil)
)

type ClientOptions struct {
	ProviderName string
	ModelName    string
	BaseURL      string
	APIKey       string
}

// New builds the generator for opts.ProviderName. Anthropic models go through
// the native SDK, every other provider is assumed to speak the OpenAI API.
func New(opts ClientOptions) (convert.Generator, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("no API key for provider %s", opts.ProviderName)
	}
	if opts.ModelName == "" {
		return nil, fmt.Errorf("no model for provider %s", opts.ProviderName)
	}
	switch opts.ProviderName {
	case "anthropic":
		return NewAnthropicClient(opts), nil
	default:
		return NewClient(opts), nil
	}
}

type Client struct {
	*openai.Client
	opts ClientOptions
}

func NewClient(opts ClientOptions) *Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)
	return &Client{
		Client: &client,
		opts:   opts,
	}
}

func (c *Client) Request(ctx context.Context, request proto.Request) *Stream {
	params := openai.ChatCompletionNewParams{
		Messages: toOpenAIMessages(request.Messages),
		Model:    c.opts.ModelName,
	}
	if request.Temperature != nil {
		params.Temperature = openai.Float(*request.Temperature)
	}
	if request.MaxTokens != nil {
		params.MaxTokens = openai.Int(*request.MaxTokens)
	}

	stream := c.Chat.Completions.NewStreaming(ctx, params)
	return NewStream(stream)
}

func (c *Client) Generate(ctx context.Context, request proto.Request) (string, error) {
	completion, err := c.Request(ctx, request).Collect(nil)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("no response from openai")
	}
	return completion.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []proto.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case proto.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case proto.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func ParseModelString(modelStr string) (string, string, error) {
	parts := strings.SplitN(modelStr, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid model string: %s", modelStr)
	}
	// provider, model
	return parts[0], parts[1], nil
}
