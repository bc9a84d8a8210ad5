package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/hzhou826/chatrelay/internal/config"
	"github.com/hzhou826/chatrelay/internal/domain"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// NewClient creates an upstream model client for the configured provider.
// A missing credential does not fail the process: the returned client
// reports the initialization failure on every call, so the server can keep
// answering with an in-band error.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			log.Printf("WARN: GEMINI_API_KEY is not set, model calls will fail")
			return newUnavailableClient(cfg.GeminiModel, "GEMINI_API_KEY is not set"), nil
		}
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout())
		if err != nil {
			log.Printf("ERROR: failed to initialize gemini client: %v", err)
			return newUnavailableClient(cfg.GeminiModel, err.Error()), nil
		}
		return client, nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			log.Printf("WARN: OPENAI_API_KEY is not set, model calls will fail")
			return newUnavailableClient(cfg.OpenAIModel, "OPENAI_API_KEY is not set"), nil
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTimeout()), nil
	case ProviderMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}

// unavailableClient fails every call fast with the initialization error.
type unavailableClient struct {
	model  string
	reason string
}

func newUnavailableClient(model, reason string) *unavailableClient {
	return &unavailableClient{model: model, reason: reason}
}

var _ Client = (*unavailableClient)(nil)

func (c *unavailableClient) ModelID() string {
	return c.model
}

func (c *unavailableClient) GenerateContent(ctx context.Context, prompt string) (*Reply, error) {
	return nil, c.err()
}

func (c *unavailableClient) GenerateContentStream(ctx context.Context, prompt string, callback StreamCallback) error {
	return c.err()
}

func (c *unavailableClient) err() error {
	return &domain.UpstreamError{Message: fmt.Sprintf("model client is not available: %s", c.reason)}
}
