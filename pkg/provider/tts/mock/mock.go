// Package mock provides a configurable in-memory tts.Provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/Anand38913/voice-outbound/pkg/audioformat"
	"github.com/Anand38913/voice-outbound/pkg/provider/tts"
)

// Compile-time assertion that Provider implements tts.Provider.
var _ tts.Provider = (*Provider)(nil)

// Provider is a mock tts.Provider. Configure Audio/Err before use; Requests
// records every invocation. Safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	// Audio is returned by Synthesize when SynthesizeFunc is nil. A zero
	// value yields a small wav payload so artifact persistence still works.
	Audio tts.Audio

	// Err is returned by Synthesize when SynthesizeFunc is nil.
	Err error

	// SynthesizeFunc, when set, overrides the canned Audio/Err behaviour.
	SynthesizeFunc func(ctx context.Context, req tts.Request) (tts.Audio, error)

	// Requests records all invocations in order.
	Requests []tts.Request
}

// Synthesize implements tts.Provider.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	p.mu.Lock()
	p.Requests = append(p.Requests, req)
	fn := p.SynthesizeFunc
	audio, err := p.Audio, p.Err
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return tts.Audio{}, err
	}
	if audio.Data == nil && audio.Format == "" {
		audio = tts.Audio{
			Data:   append([]byte("RIFF\x00\x00\x00\x00WAVE"), []byte(req.Text)...),
			Format: audioformat.Wav,
		}
	}
	return audio, nil
}

// RequestCount returns the number of recorded invocations.
func (p *Provider) RequestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}
