// Package service implements the chat relay core: context composition,
// one-shot generation and the streaming relay.
package service

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/hzhou826/chatrelay/internal/adapter/llm"
	"github.com/hzhou826/chatrelay/internal/config"
	"github.com/hzhou826/chatrelay/internal/domain"
	"github.com/hzhou826/chatrelay/internal/policy"
	"github.com/hzhou826/chatrelay/internal/store"
)

// Service coordinates the store, the upstream model client and the
// admission policy.
type Service struct {
	store            store.Store
	llm              llm.Client
	policy           *policy.Engine
	contextMaxTokens int
	tokenizer        *tiktoken.Tiktoken
}

// New creates the service. When cfg.ContextMaxTokens is positive, prior
// turns are truncated to that token budget during context composition.
func New(st store.Store, client llm.Client, engine *policy.Engine, cfg *config.Config) *Service {
	s := &Service{
		store:            st,
		llm:              client,
		policy:           engine,
		contextMaxTokens: cfg.ContextMaxTokens,
	}
	if cfg.ContextMaxTokens > 0 {
		// Estimation only; a nil tokenizer falls back to a length heuristic.
		s.tokenizer, _ = tiktoken.GetEncoding("cl100k_base")
	}
	return s
}

// admit evaluates the message against the admission policy. It runs before
// any upstream or storage call.
func (s *Service) admit(ctx context.Context, sessionID, message string) error {
	decision, err := s.policy.Evaluate(ctx, map[string]interface{}{
		"message":    message,
		"session_id": sessionID,
	})
	if err != nil {
		return fmt.Errorf("policy evaluation failed: %w", err)
	}
	if decision != policy.DecisionAllow {
		return domain.NewValidationError("message must be between 1 and 2000 characters")
	}
	return nil
}
