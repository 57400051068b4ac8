// Package artifact stores synthesized reply audio on disk so the signaling
// provider can fetch it over HTTP. Artifacts are short-lived: each one is
// played back once, shortly after it is written, and a sweep evicts anything
// old or beyond the retention cap.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anand38913/voice-outbound/pkg/audioformat"
)

// ErrNotFound is returned by Get when no artifact has the given id.
var ErrNotFound = errors.New("artifact not found")

// validID matches ids issued by Put. Anything else is rejected before it can
// reach the filesystem.
var validID = regexp.MustCompile(`^reply_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(wav|mp3)$`)

// Artifact is one stored audio reply.
type Artifact struct {
	// ID is the artifact's filename, also its public identifier.
	ID string

	// Format is the audio container the data is in.
	Format audioformat.Format

	// StoredAt is when the artifact was written.
	StoredAt time.Time
}

// Store writes reply audio under a single directory.
type Store struct {
	dir   string
	clock func() time.Time
	log   *slog.Logger

	mu    sync.Mutex
	items map[string]Artifact
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

// NewStore creates dir if needed and returns a store over it. Files left
// behind by a previous run are removed, they belong to calls that no longer
// exist.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	s := &Store{
		dir:   dir,
		clock: time.Now,
		log:   slog.Default(),
		items: make(map[string]Artifact),
	}
	for _, opt := range opts {
		opt(s)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan artifact dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && validID.MatchString(e.Name()) {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				s.log.Warn("could not remove stale artifact", "id", e.Name(), "error", err)
			}
		}
	}
	return s, nil
}

// Put writes data as a new artifact and returns its id.
func (s *Store) Put(data []byte, format audioformat.Format) (string, error) {
	id := fmt.Sprintf("reply_%s.%s", uuid.NewString(), format.Extension())
	if err := os.WriteFile(filepath.Join(s.dir, id), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	s.mu.Lock()
	s.items[id] = Artifact{ID: id, Format: format, StoredAt: s.clock()}
	s.mu.Unlock()
	return id, nil
}

// Get returns the audio bytes and metadata for id.
func (s *Store) Get(id string) ([]byte, Artifact, error) {
	if !validID.MatchString(id) {
		return nil, Artifact{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	s.mu.Lock()
	art, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		return nil, Artifact{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, Artifact{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, Artifact{}, fmt.Errorf("read artifact: %w", err)
	}
	return data, art, nil
}

// Len returns the number of retained artifacts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep evicts artifacts older than maxAge and, if maxCount > 0, the oldest
// artifacts beyond that cap. It returns how many were evicted.
func (s *Store) Sweep(maxAge time.Duration, maxCount int) int {
	cutoff := s.clock().Add(-maxAge)

	s.mu.Lock()
	var evict []string
	remaining := make([]Artifact, 0, len(s.items))
	for id, art := range s.items {
		if art.StoredAt.Before(cutoff) {
			evict = append(evict, id)
		} else {
			remaining = append(remaining, art)
		}
	}
	if maxCount > 0 && len(remaining) > maxCount {
		sort.Slice(remaining, func(i, j int) bool {
			return remaining[i].StoredAt.Before(remaining[j].StoredAt)
		})
		for _, art := range remaining[:len(remaining)-maxCount] {
			evict = append(evict, art.ID)
		}
	}
	for _, id := range evict {
		delete(s.items, id)
	}
	s.mu.Unlock()

	for _, id := range evict {
		if err := os.Remove(filepath.Join(s.dir, id)); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("could not remove artifact", "id", id, "error", err)
		}
	}
	return len(evict)
}

// Run sweeps the store on the given interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval, maxAge time.Duration, maxCount int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(maxAge, maxCount); n > 0 {
				s.log.Debug("evicted reply artifacts", "evicted", n, "remaining", s.Len())
			}
		}
	}
}
