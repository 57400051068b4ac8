// Package mock provides a configurable in-memory llm.Provider for tests.
package mock

import (
	"context"
	"sync"

	"github.com/Anand38913/voice-outbound/pkg/provider/llm"
)

// Compile-time assertion that Provider implements llm.Provider.
var _ llm.Provider = (*Provider)(nil)

// Provider is a mock llm.Provider. Configure Answer/Err before use; Requests
// records every invocation. Safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	// Answer is returned by Complete when CompleteFunc is nil.
	Answer string

	// Err is returned by Complete when CompleteFunc is nil.
	Err error

	// CompleteFunc, when set, overrides the canned Answer/Err behaviour.
	CompleteFunc func(ctx context.Context, req llm.Request) (string, error)

	// Requests records all invocations in order.
	Requests []llm.Request
}

// Complete implements llm.Provider.
func (p *Provider) Complete(ctx context.Context, req llm.Request) (string, error) {
	p.mu.Lock()
	p.Requests = append(p.Requests, req)
	fn := p.CompleteFunc
	answer, err := p.Answer, p.Err
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return answer, err
}
