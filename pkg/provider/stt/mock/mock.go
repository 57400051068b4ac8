// Package mock provides a configurable in-memory stt.Provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/Anand38913/voice-outbound/pkg/provider/stt"
)

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Call records one Transcribe invocation.
type Call struct {
	Audio    []byte
	Language string
}

// Provider is a mock stt.Provider. Configure Text/Err before use; Calls
// records every invocation. Safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	// Text is returned by Transcribe when TranscribeFunc is nil.
	Text string

	// Err is returned by Transcribe when TranscribeFunc is nil.
	Err error

	// TranscribeFunc, when set, overrides the canned Text/Err behaviour.
	TranscribeFunc func(ctx context.Context, audio []byte, language string) (string, error)

	// Calls records all invocations in order.
	Calls []Call
}

// Transcribe implements stt.Provider.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, Call{Audio: audio, Language: language})
	fn := p.TranscribeFunc
	text, err := p.Text, p.Err
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, audio, language)
	}
	return text, err
}

// CallCount returns the number of recorded invocations.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}
