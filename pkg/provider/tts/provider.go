// Package tts defines the Provider interface for Text-to-Speech backends.
//
// A TTS provider wraps a remote synthesis service and returns one complete
// audio payload per request, together with its detected container format.
// The telephony leg plays whatever file the artifact store persists, and it
// resolves the codec from the extension, so the format carried on the
// returned Audio must match the actual bytes.
//
// Implementations must be safe for concurrent use.
package tts

import (
	"context"

	"github.com/Anand38913/voice-outbound/pkg/audioformat"
)

// Audio is one synthesized payload with its detected container format.
type Audio struct {
	// Data is the decoded audio bytes.
	Data []byte

	// Format is the detected container format. A media type declared by the
	// service takes precedence over byte sniffing.
	Format audioformat.Format
}

// Request carries everything a synthesis call needs.
type Request struct {
	// Text is the sentence to speak. Must be non-empty.
	Text string

	// Language is the BCP-47 language tag of Text (e.g. "te-IN").
	Language string

	// Voice is the provider-specific voice identifier. Empty selects the
	// provider's default voice.
	Voice string
}

// Provider is the abstraction over any TTS backend.
type Provider interface {
	// Synthesize converts text to speech. A non-success response, or a
	// response with no locatable audio payload, surfaces as a
	// [github.com/Anand38913/voice-outbound/pkg/provider.UpstreamError].
	// Implementations perform exactly one attempt: a retried synthesis call
	// could double-charge or double-write audio files.
	Synthesize(ctx context.Context, req Request) (Audio, error)
}
