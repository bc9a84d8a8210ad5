// Package llm provides an abstraction for upstream text-generation clients.
package llm

import "context"

// Reply is the result of a full (non-streaming) generation call.
type Reply struct {
	Text  string
	Model string
}

// StreamCallback is called for each text fragment of a streaming reply, in
// arrival order. Returning an error stops consumption of the stream; the
// adapter returns that error unchanged.
type StreamCallback func(text string) error

// Client defines the two upstream model operations. Both are single
// fallible remote calls with no local retry.
type Client interface {
	// GenerateContent sends a blocking request and returns the full reply.
	GenerateContent(ctx context.Context, prompt string) (*Reply, error)

	// GenerateContentStream produces the reply incrementally, invoking the
	// callback once per fragment as it arrives from the network. The stream
	// is finite and not restartable; returning nil means end-of-stream.
	GenerateContentStream(ctx context.Context, prompt string, callback StreamCallback) error

	// ModelID returns the identifier of the configured model.
	ModelID() string
}
