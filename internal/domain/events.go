package domain

import (
	"encoding/json"
	"fmt"
)

// StreamEventKind tags the variants of a stream event.
type StreamEventKind string

const (
	StreamContent StreamEventKind = "content"
	StreamDone    StreamEventKind = "done"
	StreamError   StreamEventKind = "error"
)

// StreamEvent is one event of a streamed reply: a text fragment, a terminal
// done marker, or an in-band error. Upstream chunk shapes are normalized to
// this single variant at the model client boundary.
type StreamEvent struct {
	Kind    StreamEventKind
	Text    string // set for StreamContent
	Message string // set for StreamError
}

// ContentEvent returns a content fragment event.
func ContentEvent(text string) StreamEvent {
	return StreamEvent{Kind: StreamContent, Text: text}
}

// DoneEvent returns the terminal event that marks graceful completion.
func DoneEvent() StreamEvent {
	return StreamEvent{Kind: StreamDone}
}

// ErrorEvent returns an in-band error event.
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Kind: StreamError, Message: message}
}

// MarshalJSON renders the wire form: {"content":s}, {"done":true} or
// {"error":s}.
func (e StreamEvent) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case StreamContent:
		return json.Marshal(map[string]string{"content": e.Text})
	case StreamDone:
		return json.Marshal(map[string]bool{"done": true})
	case StreamError:
		return json.Marshal(map[string]string{"error": e.Message})
	default:
		return nil, fmt.Errorf("unknown stream event kind: %q", e.Kind)
	}
}
