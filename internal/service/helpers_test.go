package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hzhou826/chatrelay/internal/adapter/llm"
	"github.com/hzhou826/chatrelay/internal/config"
	"github.com/hzhou826/chatrelay/internal/policy"
	"github.com/hzhou826/chatrelay/internal/store"
)

// fakeLLM is a scripted upstream client. Chunks are streamed in order;
// failAfter controls how many chunks are delivered before err is returned
// (-1 means never fail).
type fakeLLM struct {
	chunks    []string
	err       error
	failAfter int
	model     string
	prompts   []string
	calls     int
}

func newFakeLLM(chunks ...string) *fakeLLM {
	return &fakeLLM{chunks: chunks, failAfter: -1, model: "fake-model"}
}

func (f *fakeLLM) ModelID() string { return f.model }

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string) (*llm.Reply, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	full := ""
	for _, c := range f.chunks {
		full += c
	}
	return &llm.Reply{Text: full, Model: f.model}, nil
}

func (f *fakeLLM) GenerateContentStream(ctx context.Context, prompt string, callback llm.StreamCallback) error {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.failAfter == 0 {
		return f.err
	}
	for i, c := range f.chunks {
		if err := callback(c); err != nil {
			return err
		}
		if f.failAfter > 0 && i+1 == f.failAfter {
			return f.err
		}
	}
	return nil
}

func newTestService(t *testing.T, client llm.Client, cfg *config.Config) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	if cfg == nil {
		cfg = &config.Config{}
	}
	return New(st, client, engine, cfg), st
}
