// Package sarvam provides a Sarvam AI-backed TTS provider. It submits one
// sentence per request to the text-to-speech REST endpoint and normalizes the
// response into a single audio payload with a detected container format. It
// implements the tts.Provider interface.
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Anand38913/voice-outbound/pkg/provider"
	"github.com/Anand38913/voice-outbound/pkg/provider/tts"
)

const (
	defaultBaseURL = "https://api.sarvam.ai/text-to-speech"
	defaultVoice   = "bulbul:v2"

	// sampleRate is fixed at 8 kHz: the telephony provider plays 8 kHz wav
	// and silently mangles anything else.
	sampleRate = 8000

	outputFormat = "wav"

	// requestTimeout bounds a single synthesis call; one attempt per turn.
	requestTimeout = 60 * time.Second
)

// Compile-time assertion that Provider implements tts.Provider.
var _ tts.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithBaseURL overrides the text-to-speech endpoint URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		if url != "" {
			p.baseURL = url
		}
	}
}

// WithVoice sets the default voice identifier (e.g. "bulbul:v2"). A voice on
// the request still wins.
func WithVoice(voice string) Option {
	return func(p *Provider) {
		if voice != "" {
			p.voice = voice
		}
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// Provider implements tts.Provider backed by the Sarvam text-to-speech API.
type Provider struct {
	apiKey     string
	baseURL    string
	voice      string
	httpClient *http.Client
}

// New creates a new Provider. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("sarvam: apiKey must not be empty")
	}
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		voice:      defaultVoice,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// synthesisRequest is the JSON payload sent to the text-to-speech endpoint.
type synthesisRequest struct {
	Input              string `json:"input"`
	TargetLanguageCode string `json:"target_language_code,omitempty"`
	Voice              string `json:"voice"`
	OutputFormat       string `json:"output_format"`
	SampleRate         int    `json:"sample_rate"`
}

// Synthesize implements tts.Provider.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) (tts.Audio, error) {
	if req.Text == "" {
		return tts.Audio{}, errors.New("sarvam: request text must not be empty")
	}

	voice := req.Voice
	if voice == "" {
		voice = p.voice
	}

	payload, err := json.Marshal(synthesisRequest{
		Input:              req.Text,
		TargetLanguageCode: req.Language,
		Voice:              voice,
		OutputFormat:       outputFormat,
		SampleRate:         sampleRate,
	})
	if err != nil {
		return tts.Audio{}, fmt.Errorf("sarvam: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return tts.Audio{}, fmt.Errorf("sarvam: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("API-Key", p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return tts.Audio{}, &provider.UpstreamError{Service: "tts", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return tts.Audio{}, &provider.UpstreamError{Service: "tts", StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tts.Audio{}, &provider.UpstreamError{Service: "tts", Err: fmt.Errorf("read response body: %w", err)}
	}

	data, format, err := extractAudio(body)
	if err != nil {
		return tts.Audio{}, &provider.UpstreamError{Service: "tts", Err: err}
	}

	return tts.Audio{Data: data, Format: format}, nil
}
