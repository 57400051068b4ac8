// Package session tracks per-call conversation state between stateless
// webhook callbacks. Sessions are keyed by the provider's call SID and are
// swept after a period of inactivity so abandoned calls cannot leak memory.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the position of a call in the conversation flow.
type State string

const (
	// StateAwaitingLanguage means the menu has been played and the caller
	// has not yet picked a language.
	StateAwaitingLanguage State = "awaiting_language"

	// StateAwaitingQuery means a language is chosen and the caller has been
	// invited to speak a question.
	StateAwaitingQuery State = "awaiting_query"

	// StateAwaitingContinuation means an answer was played and the caller
	// is choosing between another question and hanging up.
	StateAwaitingContinuation State = "awaiting_continuation"

	// StateEnded means the call has been wrapped up.
	StateEnded State = "ended"
)

// Call is the per-call conversation state.
type Call struct {
	// ID is the signaling provider's call identifier.
	ID string

	// Language is the BCP-47 code chosen from the menu, empty until then.
	Language string

	// State is the call's position in the flow.
	State State

	// TurnCount is the number of completed question and answer cycles.
	TurnCount int

	// LastActivityAt is when the call last produced a webhook.
	LastActivityAt time.Time
}

type entry struct {
	mu   sync.Mutex
	call Call
}

// Store holds live call sessions.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	clock   func() time.Time
	log     *slog.Logger
	onSweep func(removed int)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger used by the sweep loop.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithSweepHook registers a callback invoked with the number of sessions a
// sweep removed, so gauges tracking live sessions stay accurate.
func WithSweepHook(hook func(removed int)) Option {
	return func(s *Store) { s.onSweep = hook }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		clock:   time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the session for id, creating a fresh one in
// [StateAwaitingLanguage] if none exists. The second result reports whether
// the session was created by this call.
func (s *Store) GetOrCreate(id string) (Call, bool) {
	e, created := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	if created {
		e.call = Call{ID: id, State: StateAwaitingLanguage}
	}
	e.call.LastActivityAt = s.clock()
	return e.call, created
}

// Update applies mutate to the session for id under its lock and returns the
// resulting state. A missing session is created first, so a webhook arriving
// after the sweep still gets a coherent, if restarted, conversation.
func (s *Store) Update(id string, mutate func(*Call)) Call {
	e, created := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	if created {
		e.call = Call{ID: id, State: StateAwaitingLanguage}
	}
	mutate(&e.call)
	e.call.ID = id
	e.call.LastActivityAt = s.clock()
	return e.call
}

// Delete removes the session for id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) entry(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	return e, !ok
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were removed. Ended sessions use the same timeout; the provider may deliver
// a late duplicate callback for them.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := s.clock().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		e.mu.Lock()
		expired := e.call.LastActivityAt.Before(cutoff)
		e.mu.Unlock()
		if expired {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 && s.onSweep != nil {
		s.onSweep(removed)
	}
	return removed
}

// Run sweeps the store on the given interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				s.log.Debug("swept idle call sessions", "removed", n, "remaining", s.Len())
			}
		}
	}
}
