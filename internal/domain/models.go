// Package domain defines the core domain models for the chat relay.
package domain

import "time"

// Session represents a conversation identified by an opaque id.
// Sessions are created implicitly on first reference.
type Session struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int64     `json:"message_count"`
}

// Turn is one user-message/reply pair belonging to a session. A turn is
// written only after the full reply is known and is never mutated.
type Turn struct {
	TurnID      string    `json:"turn_id"`
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	ReplyText   string    `json:"reply_text"`
	Timestamp   time.Time `json:"timestamp"`
	ModelUsed   *string   `json:"model_used"`
}

// ChatRequest is the body of the chat endpoints.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply shape of the chat endpoints. Upstream failures
// are reported in-band through Error so clients can render them gracefully.
type ChatResponse struct {
	Response  string `json:"response"`
	Error     string `json:"error,omitempty"`
	ModelUsed string `json:"model_used,omitempty"`
}

// SessionCreated is returned when a session is created eagerly.
type SessionCreated struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse lists the persisted turns of one session.
type HistoryResponse struct {
	SessionID  string `json:"session_id"`
	Messages   []Turn `json:"messages"`
	TotalCount int64  `json:"total_count"`
}

// SessionsResponse lists known sessions, most recently active first.
type SessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Count    int       `json:"count"`
}
