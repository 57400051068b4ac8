// Package llm defines the Provider interface for Large Language Model
// backends used by the optional LLM answer engine.
//
// The support line answers most queries from its localized topic table; a
// configured LLM handles the long tail of queries no topic matches. The
// interface is deliberately small: one prompt in, one short spoken answer
// out. Implementations must be safe for concurrent use.
package llm

import "context"

// Request carries a single completion request.
type Request struct {
	// SystemPrompt is the high-priority instruction framing the answer
	// (language, persona, length constraints).
	SystemPrompt string

	// UserMessage is the caller's transcribed query.
	UserMessage string

	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int

	// Temperature controls output randomness. Zero means provider default.
	Temperature float64
}

// Provider is the abstraction over any LLM backend.
type Provider interface {
	// Complete returns the model's answer text for req. Errors are
	// recovered by the caller; an LLM failure falls back to the localized
	// default answer, never to a failed call leg.
	Complete(ctx context.Context, req Request) (string, error)
}
