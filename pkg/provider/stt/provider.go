// Package stt defines the Provider interface for Speech-to-Text backends.
//
// An STT provider wraps a remote transcription service and presents a uniform
// batch interface: one recorded utterance in, one transcript out. The call
// flow submits each caller recording exactly once per turn, since a retried
// transcription call could double-charge, so implementations must not retry
// internally.
//
// Implementations must be safe for concurrent use.
package stt

import "context"

// Provider is the abstraction over any batch transcription backend.
type Provider interface {
	// Transcribe converts recorded audio to text. language is a BCP-47
	// language tag (e.g. "hi-IN") hinting at the caller's spoken language.
	//
	// An empty transcript is not an error: a successful call on audio the
	// service heard nothing in returns ("", nil), and callers treat the
	// empty string as "no input". A non-success response from the service
	// surfaces as a [github.com/Anand38913/voice-outbound/pkg/provider.UpstreamError].
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}
