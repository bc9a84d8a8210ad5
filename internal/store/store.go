// Package store defines the persistence interface and implementations.
package store

import (
	"context"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// Store defines the interface for session and turn persistence. It is the
// only state shared across requests; its concurrency discipline is delegated
// to the underlying storage engine.
type Store interface {
	// CreateOrTouch creates the session if absent, otherwise only bumps
	// last_activity. Safe to call redundantly: created_at and message_count
	// are unaffected by repeated calls.
	CreateOrTouch(ctx context.Context, sessionID string) (*domain.Session, error)

	// GetSession retrieves a session by id, or nil if it does not exist.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// ListSessions returns all sessions, descending by last_activity.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// AppendTurn persists a turn, increments the owning session's
	// message_count by one and bumps last_activity, as one transaction.
	AppendTurn(ctx context.Context, turn *domain.Turn) error

	// ListTurns returns the session's turns, ascending by timestamp.
	ListTurns(ctx context.Context, sessionID string) ([]domain.Turn, error)

	// CountTurns returns the number of persisted turns for a session.
	CountTurns(ctx context.Context, sessionID string) (int64, error)

	// Close releases the underlying storage resources.
	Close() error
}
