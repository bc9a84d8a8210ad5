package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// Chat answers a single message without session context or persistence.
// Upstream failures are reported in-band through the response shape.
func (s *Service) Chat(ctx context.Context, message string) (*domain.ChatResponse, error) {
	if err := s.admit(ctx, "", message); err != nil {
		return nil, err
	}

	reply, err := s.llm.GenerateContent(ctx, message)
	if err != nil {
		log.Printf("WARN: chat request failed: %v", err)
		return &domain.ChatResponse{Error: err.Error(), ModelUsed: s.llm.ModelID()}, nil
	}
	return &domain.ChatResponse{Response: reply.Text, ModelUsed: reply.Model}, nil
}

// ChatWithSession answers a message with the session's prior turns as
// context and persists the completed turn. The reply is returned even when
// persistence fails; storage problems are logged, never surfaced.
func (s *Service) ChatWithSession(ctx context.Context, sessionID, message string) (*domain.ChatResponse, error) {
	if err := s.admit(ctx, sessionID, message); err != nil {
		return nil, err
	}

	if _, err := s.store.CreateOrTouch(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to touch session: %w", err)
	}

	prompt, err := s.ComposeContext(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("WARN: chat request for session %s failed: %v", sessionID, err)
		return &domain.ChatResponse{Error: err.Error(), ModelUsed: s.llm.ModelID()}, nil
	}

	s.persistTurn(ctx, sessionID, message, reply.Text, reply.Model)
	return &domain.ChatResponse{Response: reply.Text, ModelUsed: reply.Model}, nil
}

// CreateSession creates a session eagerly with a generated id.
func (s *Service) CreateSession(ctx context.Context) (*domain.SessionCreated, error) {
	session, err := s.store.CreateOrTouch(ctx, uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &domain.SessionCreated{SessionID: session.SessionID, CreatedAt: session.CreatedAt}, nil
}

// History returns the session's turns in timestamp order.
func (s *Service) History(ctx context.Context, sessionID string) (*domain.HistoryResponse, error) {
	turns, err := s.store.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	count, err := s.store.CountTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count turns: %w", err)
	}
	if turns == nil {
		turns = []domain.Turn{}
	}
	return &domain.HistoryResponse{SessionID: sessionID, Messages: turns, TotalCount: count}, nil
}

// Sessions returns all sessions, most recently active first.
func (s *Service) Sessions(ctx context.Context) (*domain.SessionsResponse, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return &domain.SessionsResponse{Sessions: sessions, Count: len(sessions)}, nil
}

// persistTurn writes a completed turn. Delivery of the reply and durability
// of history are decoupled: failures here are logged only.
func (s *Service) persistTurn(ctx context.Context, sessionID, userMessage, replyText, model string) {
	turn := &domain.Turn{
		TurnID:      "turn_" + uuid.New().String()[:8],
		SessionID:   sessionID,
		UserMessage: userMessage,
		ReplyText:   replyText,
		Timestamp:   time.Now().UTC(),
	}
	if model != "" {
		turn.ModelUsed = &model
	}
	if err := s.store.AppendTurn(ctx, turn); err != nil {
		log.Printf("ERROR: failed to persist turn for session %s: %v", sessionID, err)
	}
}
