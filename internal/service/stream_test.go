package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hzhou826/chatrelay/internal/domain"
)

func collectEvents(events *[]domain.StreamEvent) EmitFunc {
	return func(e domain.StreamEvent) error {
		*events = append(*events, e)
		return nil
	}
}

func TestStreamChatForwardsChunksAndPersists(t *testing.T) {
	ctx := context.Background()
	fake := newFakeLLM("Hel", "lo")
	svc, st := newTestService(t, fake, nil)

	var events []domain.StreamEvent
	err := svc.StreamChat(ctx, "s1", "hi", collectEvents(&events))
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, domain.ContentEvent("Hel"), events[0])
	assert.Equal(t, domain.ContentEvent("lo"), events[1])
	assert.Equal(t, domain.DoneEvent(), events[2])

	turns, err := st.ListTurns(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "hi", turns[0].UserMessage)
	assert.Equal(t, "Hello", turns[0].ReplyText)
	require.NotNil(t, turns[0].ModelUsed)
	assert.Equal(t, "fake-model", *turns[0].ModelUsed)

	session, err := st.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.MessageCount)
}

func TestStreamChatImmediateUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	fake := newFakeLLM()
	fake.failAfter = 0
	fake.err = &domain.UpstreamError{Code: 500, Message: "backend exploded"}
	svc, st := newTestService(t, fake, nil)

	var events []domain.StreamEvent
	err := svc.StreamChat(ctx, "s1", "hi", collectEvents(&events))
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, domain.StreamError, events[0].Kind)
	assert.Contains(t, events[0].Message, "backend exploded")

	turns, err := st.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestStreamChatMidStreamFailureDropsPartialReply(t *testing.T) {
	ctx := context.Background()
	fake := newFakeLLM("par", "tial")
	fake.failAfter = 1
	fake.err = &domain.UpstreamError{Message: "connection reset"}
	svc, st := newTestService(t, fake, nil)

	var events []domain.StreamEvent
	err := svc.StreamChat(ctx, "s1", "hi", collectEvents(&events))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, domain.ContentEvent("par"), events[0])
	assert.Equal(t, domain.StreamError, events[1].Kind)

	turns, err := st.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns, "partial output must not be persisted")
}

func TestStreamChatValidationBeforeUpstream(t *testing.T) {
	fake := newFakeLLM("never")
	svc, _ := newTestService(t, fake, nil)

	var events []domain.StreamEvent
	err := svc.StreamChat(context.Background(), "s1", "", collectEvents(&events))

	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Empty(t, events, "nothing may be emitted after a validation failure")
	assert.Equal(t, 0, fake.calls, "no upstream call may be made")
}

func TestStreamChatClientDisconnect(t *testing.T) {
	ctx := context.Background()
	fake := newFakeLLM("a", "b", "c")
	svc, st := newTestService(t, fake, nil)

	gone := errors.New("write on closed connection")
	var delivered int
	err := svc.StreamChat(ctx, "s1", "hi", func(e domain.StreamEvent) error {
		delivered++
		if delivered == 2 {
			return gone
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	turns, err := st.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns, "no turn may be persisted after a disconnect")
}

func TestStreamChatEmptyReplyNotPersisted(t *testing.T) {
	ctx := context.Background()
	fake := newFakeLLM()
	svc, st := newTestService(t, fake, nil)

	var events []domain.StreamEvent
	err := svc.StreamChat(ctx, "s1", "hi", collectEvents(&events))
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, domain.StreamDone, events[0].Kind)

	turns, err := st.ListTurns(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
