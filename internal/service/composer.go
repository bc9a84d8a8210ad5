package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// ComposeContext builds the prompt for a new message. With no prior turns
// the message is sent verbatim; otherwise each prior turn is rendered as a
// User/AI block so the stateless upstream call sees the conversation.
func (s *Service) ComposeContext(ctx context.Context, sessionID, message string) (string, error) {
	turns, err := s.store.ListTurns(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load prior turns: %w", err)
	}
	if len(turns) == 0 {
		return message, nil
	}

	if s.contextMaxTokens > 0 {
		turns = s.fitTokenBudget(turns)
		if len(turns) == 0 {
			return message, nil
		}
	}

	var b strings.Builder
	b.WriteString("Previous messages:\n")
	for _, turn := range turns {
		fmt.Fprintf(&b, "User: %s\nAI: %s\n", turn.UserMessage, turn.ReplyText)
	}
	fmt.Fprintf(&b, "\nNew message: %s", message)
	return b.String(), nil
}

// fitTokenBudget drops the oldest turns until the rendered blocks fit the
// configured token budget. The most recent turns always win.
func (s *Service) fitTokenBudget(turns []domain.Turn) []domain.Turn {
	total := 0
	keep := len(turns)
	for i := len(turns) - 1; i >= 0; i-- {
		block := fmt.Sprintf("User: %s\nAI: %s\n", turns[i].UserMessage, turns[i].ReplyText)
		total += s.countTokens(block)
		if total > s.contextMaxTokens {
			keep = len(turns) - 1 - i
			break
		}
	}
	return turns[len(turns)-keep:]
}

func (s *Service) countTokens(text string) int {
	if s.tokenizer == nil {
		return len(text) / 4
	}
	return len(s.tokenizer.Encode(text, nil, nil))
}
