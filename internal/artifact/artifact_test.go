package artifact

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Anand38913/voice-outbound/pkg/audioformat"
)

var wavBytes = append([]byte("RIFF\x24\x00\x00\x00WAVE"), bytes.Repeat([]byte{0}, 16)...)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id, err := s.Put(wavBytes, audioformat.Wav)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !strings.HasPrefix(id, "reply_") || !strings.HasSuffix(id, ".wav") {
		t.Errorf("Put() id = %q, want reply_<uuid>.wav", id)
	}

	data, art, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(data, wavBytes) {
		t.Error("Get() returned different bytes than stored")
	}
	if art.Format != audioformat.Wav {
		t.Errorf("Get() format = %q, want wav", art.Format)
	}
}

func TestGetUnknown(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for _, id := range []string{
		"reply_00000000-0000-0000-0000-000000000000.wav",
		"../../../etc/passwd",
		"reply_x.wav",
		"",
	} {
		if _, _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestSweepByAge(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := now
	s := newTestStore(t, WithClock(func() time.Time { return clock }))

	old, _ := s.Put(wavBytes, audioformat.Wav)
	clock = now.Add(30 * time.Minute)
	fresh, _ := s.Put(wavBytes, audioformat.MP3)

	clock = now.Add(65 * time.Minute)
	if n := s.Sweep(time.Hour, 0); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if _, _, err := s.Get(old); !errors.Is(err, ErrNotFound) {
		t.Error("aged artifact still retrievable")
	}
	if _, _, err := s.Get(fresh); err != nil {
		t.Errorf("fresh artifact gone: %v", err)
	}
}

func TestSweepByCount(t *testing.T) {
	t.Parallel()

	now := time.Now()
	clock := now
	s := newTestStore(t, WithClock(func() time.Time { return clock }))

	var ids []string
	for i := range 5 {
		clock = now.Add(time.Duration(i) * time.Second)
		id, _ := s.Put(wavBytes, audioformat.Wav)
		ids = append(ids, id)
	}

	if n := s.Sweep(time.Hour, 2); n != 3 {
		t.Fatalf("Sweep() = %d, want 3", n)
	}
	for _, id := range ids[:3] {
		if _, _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("oldest artifact %s survived count eviction", id)
		}
	}
	for _, id := range ids[3:] {
		if _, _, err := s.Get(id); err != nil {
			t.Errorf("newest artifact %s evicted: %v", id, err)
		}
	}
}

func TestNewStoreClearsStaleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, "reply_11111111-2222-3333-4444-555555555555.wav")
	if err := os.WriteFile(stale, wavBytes, 0o644); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(keep, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Error("stale artifact from previous run not removed")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("unrelated file removed from artifact dir")
	}
}
