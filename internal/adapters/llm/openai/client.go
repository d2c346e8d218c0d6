package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openaigo "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/randomtoy/arcana-web/internal/domain"
	"github.com/randomtoy/arcana-web/internal/ports"
)

// Client implements ports.Generator via the official OpenAI SDK. Retries are
// disabled so every Generate is exactly one upstream call.
type Client struct {
	client openaigo.Client
}

func NewClient(httpClient *http.Client, apiKey, baseURL string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Client{client: openaigo.NewClient(opts...)}
}

func (c *Client) Generate(ctx context.Context, in ports.GenerateInput) (ports.GenerateOutput, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(in.Model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(in.System),
			openaigo.UserMessage(in.Prompt),
		},
		MaxTokens:   openaigo.Int(int64(in.MaxTokens)),
		Temperature: openaigo.Float(in.Temperature),
	})
	if err != nil {
		return ports.GenerateOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}
	if len(resp.Choices) == 0 {
		return ports.GenerateOutput{}, fmt.Errorf("%w: no choices in response", domain.ErrUpstreamLLM)
	}

	return ports.GenerateOutput{
		Text:  strings.TrimSpace(resp.Choices[0].Message.Content),
		Model: resp.Model,
	}, nil
}
