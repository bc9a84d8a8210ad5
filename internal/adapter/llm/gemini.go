package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// GeminiClient calls the Gemini API through the google.golang.org/genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client authenticated with an API key.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

var _ Client = (*GeminiClient)(nil)

// ModelID returns the configured model identifier.
func (c *GeminiClient) ModelID() string {
	return c.model
}

// GenerateContent sends a blocking generation request.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (*Reply, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, wrapGeminiError(err)
	}
	return &Reply{Text: resp.Text(), Model: c.model}, nil
}

// GenerateContentStream consumes the upstream SSE stream and forwards each
// text fragment as it arrives. Cancelling ctx aborts the upstream call.
func (c *GeminiClient) GenerateContentStream(ctx context.Context, prompt string, callback StreamCallback) error {
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(prompt), nil) {
		if err != nil {
			return wrapGeminiError(err)
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		if err := callback(text); err != nil {
			return err
		}
	}
	return nil
}

// wrapGeminiError normalizes provider-reported failures into a
// domain.UpstreamError carrying the provider code and message.
func wrapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{Code: apiErr.Code, Message: apiErr.Message}
	}
	return &domain.UpstreamError{Message: err.Error()}
}
