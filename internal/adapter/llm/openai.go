package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// OpenAIClient calls an OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates an OpenAI client. baseURL may point at any
// OpenAI-compatible endpoint; empty means the official API.
func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

var _ Client = (*OpenAIClient)(nil)

// ModelID returns the configured model identifier.
func (c *OpenAIClient) ModelID() string {
	return c.model
}

// GenerateContent sends a blocking chat completion request.
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string) (*Reply, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.UpstreamError{Message: "empty completion response"}
	}
	return &Reply{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

// GenerateContentStream consumes the completion stream and forwards each
// delta fragment as it arrives.
func (c *OpenAIClient) GenerateContentStream(ctx context.Context, prompt string, callback StreamCallback) error {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return wrapOpenAIError(err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return wrapOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		text := resp.Choices[0].Delta.Content
		if text == "" {
			continue
		}
		if err := callback(text); err != nil {
			return err
		}
	}
}

// wrapOpenAIError normalizes provider-reported failures.
func wrapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{Code: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	return &domain.UpstreamError{Message: err.Error()}
}
