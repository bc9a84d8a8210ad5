package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hzhou826/chatrelay/internal/config"
	"github.com/hzhou826/chatrelay/internal/domain"
	"github.com/hzhou826/chatrelay/internal/store"
)

func seedTurn(t *testing.T, st store.Store, sessionID, user, reply string, ts time.Time) {
	t.Helper()
	ctx := context.Background()
	_, err := st.CreateOrTouch(ctx, sessionID)
	require.NoError(t, err)
	err = st.AppendTurn(ctx, &domain.Turn{
		TurnID:      fmt.Sprintf("t-%d", ts.UnixNano()),
		SessionID:   sessionID,
		UserMessage: user,
		ReplyText:   reply,
		Timestamp:   ts,
	})
	require.NoError(t, err)
}

func TestComposeContextNoHistory(t *testing.T) {
	svc, _ := newTestService(t, newFakeLLM(), nil)

	prompt, err := svc.ComposeContext(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", prompt)
}

func TestComposeContextSingleTurn(t *testing.T) {
	svc, st := newTestService(t, newFakeLLM(), nil)
	seedTurn(t, st, "s1", "hi", "hello", time.Now().UTC())

	prompt, err := svc.ComposeContext(context.Background(), "s1", "how are you")
	require.NoError(t, err)
	assert.Equal(t, "Previous messages:\nUser: hi\nAI: hello\n\nNew message: how are you", prompt)
}

func TestComposeContextRendersAllTurnsInOrder(t *testing.T) {
	svc, st := newTestService(t, newFakeLLM(), nil)
	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		seedTurn(t, st, "s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), base.Add(time.Duration(i)*time.Second))
	}

	prompt, err := svc.ComposeContext(context.Background(), "s1", "next")
	require.NoError(t, err)
	want := "Previous messages:\n" +
		"User: q0\nAI: a0\n" +
		"User: q1\nAI: a1\n" +
		"User: q2\nAI: a2\n" +
		"\nNew message: next"
	assert.Equal(t, want, prompt)
}

func TestComposeContextTokenBudgetDropsOldest(t *testing.T) {
	svc, st := newTestService(t, newFakeLLM(), &config.Config{ContextMaxTokens: 16})
	base := time.Now().UTC()
	seedTurn(t, st, "s1", "first question about many things", "a long first answer with many words in it", base)
	seedTurn(t, st, "s1", "newest", "short", base.Add(time.Second))

	prompt, err := svc.ComposeContext(context.Background(), "s1", "next")
	require.NoError(t, err)
	assert.Contains(t, prompt, "User: newest")
	assert.NotContains(t, prompt, "first question")
}

func TestComposeContextTokenBudgetTooSmallFallsBackToMessage(t *testing.T) {
	svc, st := newTestService(t, newFakeLLM(), &config.Config{ContextMaxTokens: 1})
	seedTurn(t, st, "s1", "a reasonably sized question", "a reasonably sized answer", time.Now().UTC())

	prompt, err := svc.ComposeContext(context.Background(), "s1", "next")
	require.NoError(t, err)
	assert.Equal(t, "next", prompt)
}
