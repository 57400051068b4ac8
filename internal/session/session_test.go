package session

import (
	"sync"
	"testing"
	"time"
)

func TestGetOrCreate(t *testing.T) {
	t.Parallel()

	s := NewStore()
	call, created := s.GetOrCreate("CA123")
	if !created {
		t.Error("GetOrCreate() created = false for new id")
	}
	if call.State != StateAwaitingLanguage {
		t.Errorf("new session State = %q, want %q", call.State, StateAwaitingLanguage)
	}
	if call.ID != "CA123" {
		t.Errorf("new session ID = %q", call.ID)
	}

	again, created := s.GetOrCreate("CA123")
	if created {
		t.Error("GetOrCreate() created = true for existing id")
	}
	if again.State != StateAwaitingLanguage {
		t.Errorf("existing session State = %q", again.State)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.GetOrCreate("CA123")

	got := s.Update("CA123", func(c *Call) {
		c.Language = "te-IN"
		c.State = StateAwaitingQuery
	})
	if got.Language != "te-IN" || got.State != StateAwaitingQuery {
		t.Errorf("Update() = %+v", got)
	}

	// A webhook arriving after the sweep recreates the session instead of
	// failing the call.
	fresh := s.Update("CA999", func(c *Call) { c.TurnCount++ })
	if fresh.State != StateAwaitingLanguage || fresh.TurnCount != 1 {
		t.Errorf("Update() on missing id = %+v", fresh)
	}
}

func TestUpdateConcurrent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("CA123", func(c *Call) { c.TurnCount++ })
		}()
	}
	wg.Wait()
	call, _ := s.GetOrCreate("CA123")
	if call.TurnCount != 50 {
		t.Errorf("TurnCount = %d after 50 concurrent updates, want 50", call.TurnCount)
	}
}

func TestSweep(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := now
	s := NewStore(WithClock(func() time.Time { return clock }))

	s.GetOrCreate("CA-old")
	clock = now.Add(9 * time.Minute)
	s.GetOrCreate("CA-fresh")

	clock = now.Add(11 * time.Minute)
	if n := s.Sweep(10 * time.Minute); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", s.Len())
	}
	if _, created := s.GetOrCreate("CA-old"); !created {
		t.Error("swept session still present")
	}
	if _, created := s.GetOrCreate("CA-fresh"); created {
		t.Error("fresh session was swept")
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.GetOrCreate("CA123")
	s.Delete("CA123")
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Delete, want 0", s.Len())
	}
}
