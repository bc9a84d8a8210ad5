package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a deterministic Client implementation for development and
// tests.
type MockClient struct {
	model string
}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{model: "mock-model"}
}

var _ Client = (*MockClient)(nil)

// ModelID returns the mock model identifier.
func (m *MockClient) ModelID() string {
	return m.model
}

// GenerateContent returns a canned reply echoing the prompt.
func (m *MockClient) GenerateContent(ctx context.Context, prompt string) (*Reply, error) {
	return &Reply{Text: m.reply(prompt), Model: m.model}, nil
}

// GenerateContentStream delivers the canned reply in small fragments.
func (m *MockClient) GenerateContentStream(ctx context.Context, prompt string, callback StreamCallback) error {
	for _, chunk := range splitIntoChunks(m.reply(prompt), 10) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := callback(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockClient) reply(prompt string) string {
	last := prompt
	if i := strings.LastIndex(prompt, "New message: "); i >= 0 {
		last = prompt[i+len("New message: "):]
	}
	return fmt.Sprintf("[MOCK] You said: %s", last)
}

func splitIntoChunks(s string, size int) []string {
	var chunks []string
	runes := []rune(s)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
