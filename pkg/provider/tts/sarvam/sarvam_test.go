package sarvam

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anand38913/voice-outbound/pkg/audioformat"
	"github.com/Anand38913/voice-outbound/pkg/provider"
	"github.com/Anand38913/voice-outbound/pkg/provider/tts"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestSynthesize_RequestShape(t *testing.T) {
	t.Parallel()

	var got synthesisRequest
	var gotKey string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("API-Key")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("unmarshal request: %v", err)
		}
		io.WriteString(w, `{"audio_base64": "`+b64(wavBytes)+`"}`)
	})

	audio, err := p.Synthesize(context.Background(), tts.Request{
		Text:     "నమస్కారం",
		Language: "te-IN",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("API-Key header = %q", gotKey)
	}
	if got.Input != "నమస్కారం" {
		t.Errorf("input = %q", got.Input)
	}
	if got.TargetLanguageCode != "te-IN" {
		t.Errorf("target_language_code = %q", got.TargetLanguageCode)
	}
	if got.Voice != defaultVoice {
		t.Errorf("voice = %q, want %q", got.Voice, defaultVoice)
	}
	if got.OutputFormat != "wav" || got.SampleRate != 8000 {
		t.Errorf("output = (%q, %d), want (wav, 8000)", got.OutputFormat, got.SampleRate)
	}
	if audio.Format != audioformat.Wav {
		t.Errorf("Format = %q, want wav", audio.Format)
	}
	if len(audio.Data) != len(wavBytes) {
		t.Errorf("payload length = %d, want %d", len(audio.Data), len(wavBytes))
	}
}

func TestSynthesize_RequestVoiceOverridesDefault(t *testing.T) {
	t.Parallel()

	var got synthesisRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		io.WriteString(w, `{"audio": "`+b64(wavBytes)+`"}`)
	})

	if _, err := p.Synthesize(context.Background(), tts.Request{Text: "hi", Voice: "anushka"}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if got.Voice != "anushka" {
		t.Errorf("voice = %q, want anushka", got.Voice)
	}
}

func TestSynthesize_EmptyText(t *testing.T) {
	t.Parallel()
	p, err := New("k")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Synthesize(context.Background(), tts.Request{}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSynthesize_UpstreamErrors(t *testing.T) {
	t.Parallel()

	t.Run("non-2xx status", func(t *testing.T) {
		t.Parallel()
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})
		_, err := p.Synthesize(context.Background(), tts.Request{Text: "hi"})
		var ue *provider.UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if ue.StatusCode != http.StatusTooManyRequests || ue.Service != "tts" {
			t.Errorf("got (%q, %d), want (tts, 429)", ue.Service, ue.StatusCode)
		}
	})

	t.Run("no payload located", func(t *testing.T) {
		t.Parallel()
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"request_id": "abc"}`)
		})
		_, err := p.Synthesize(context.Background(), tts.Request{Text: "hi"})
		if !provider.IsUpstream(err) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if !errors.Is(err, errNoPayload) {
			t.Errorf("expected errNoPayload cause, got %v", err)
		}
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		t.Parallel()
		p, err := New("k", WithBaseURL("http://127.0.0.1:1/tts"))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, err := p.Synthesize(context.Background(), tts.Request{Text: "hi"}); !provider.IsUpstream(err) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
	})
}
