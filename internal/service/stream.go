package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// relayState tracks where a streaming request is in its lifecycle.
type relayState string

const (
	stateComposing relayState = "COMPOSING"
	stateStreaming relayState = "STREAMING"
	stateCompleted relayState = "COMPLETED"
	stateFailed    relayState = "FAILED"
)

// EmitFunc delivers one stream event to the caller. Returning an error
// means the caller is gone; the relay stops consuming the upstream stream.
type EmitFunc func(domain.StreamEvent) error

// StreamChat relays an upstream model stream to emit while accumulating the
// full reply. On graceful completion it emits a done event and persists the
// turn; upstream failures become an in-band error event and nothing is
// persisted. An error return means nothing was emitted yet, so the handler
// can still answer with a plain HTTP status.
func (s *Service) StreamChat(ctx context.Context, sessionID, message string, emit EmitFunc) error {
	state := stateComposing

	if err := s.admit(ctx, sessionID, message); err != nil {
		return err
	}
	if _, err := s.store.CreateOrTouch(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	prompt, err := s.ComposeContext(ctx, sessionID, message)
	if err != nil {
		return err
	}

	state = stateStreaming
	var accumulated strings.Builder
	var emitErr error
	streamErr := s.llm.GenerateContentStream(ctx, prompt, func(text string) error {
		accumulated.WriteString(text)
		if err := emit(domain.ContentEvent(text)); err != nil {
			emitErr = err
			return err
		}
		return nil
	})

	if streamErr != nil {
		state = stateFailed
		if emitErr != nil || ctx.Err() != nil {
			// Caller disconnected mid-stream: stop forwarding, drop the
			// partial reply. The shared ctx has already cancelled the
			// upstream stream.
			log.Printf("WARN: stream for session %s aborted in state %s: client disconnected", sessionID, state)
			return nil
		}
		log.Printf("ERROR: stream for session %s failed: %v", sessionID, streamErr)
		if err := emit(domain.ErrorEvent(streamErr.Error())); err != nil {
			log.Printf("WARN: failed to deliver stream error to client: %v", err)
		}
		return nil
	}

	state = stateCompleted
	if err := emit(domain.DoneEvent()); err != nil {
		log.Printf("WARN: failed to deliver done event for session %s: %v", sessionID, err)
	}

	if accumulated.Len() > 0 {
		// The reply was already delivered; a disconnect now must not cancel
		// the decoupled persistence write.
		s.persistTurn(context.WithoutCancel(ctx), sessionID, message, accumulated.String(), s.llm.ModelID())
	}
	return nil
}
