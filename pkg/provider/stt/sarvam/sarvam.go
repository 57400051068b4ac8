// Package sarvam provides a Sarvam AI-backed STT provider. It submits one
// recorded utterance per request to the speech-to-text REST endpoint as a
// multipart upload and implements the stt.Provider interface.
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Anand38913/voice-outbound/pkg/provider"
	"github.com/Anand38913/voice-outbound/pkg/provider/stt"
)

const (
	defaultBaseURL = "https://api.sarvam.ai/speech-to-text"
	defaultModel   = "saarika:v2"

	// requestTimeout bounds a single transcription call. There is exactly
	// one attempt per turn; a failure degrades to the apology prompt.
	requestTimeout = 60 * time.Second
)

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithBaseURL overrides the speech-to-text endpoint URL.
func WithBaseURL(url string) Option {
	return func(p *Provider) {
		if url != "" {
			p.baseURL = url
		}
	}
}

// WithModel sets the transcription model identifier (e.g. "saarika:v2").
func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = model
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

// Provider implements stt.Provider backed by the Sarvam speech-to-text API.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
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
		model:      defaultModel,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// transcriptionResponse mirrors the fields the service is known to return the
// transcript under. The fields are tried in a fixed order, most specific
// first, and the first non-empty one wins.
type transcriptionResponse struct {
	Transcript string `json:"transcript"`
	Text       string `json:"text"`
}

// Transcribe implements stt.Provider. It uploads audio as multipart form data
// and returns the transcript, or "" when the service returned none.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "recording.wav")
	if err != nil {
		return "", fmt.Errorf("sarvam: create form file: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("sarvam: write audio data: %w", err)
	}
	if language != "" {
		if err := mw.WriteField("language_code", language); err != nil {
			return "", fmt.Errorf("sarvam: write language field: %w", err)
		}
	}
	if p.model != "" {
		if err := mw.WriteField("model", p.model); err != nil {
			return "", fmt.Errorf("sarvam: write model field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("sarvam: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, &body)
	if err != nil {
		return "", fmt.Errorf("sarvam: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("API-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &provider.UpstreamError{Service: "stt", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &provider.UpstreamError{Service: "stt", StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &provider.UpstreamError{Service: "stt", Err: fmt.Errorf("read response body: %w", err)}
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return "", &provider.UpstreamError{Service: "stt", Err: fmt.Errorf("parse JSON response: %w", err)}
	}

	// Empty transcript is a valid "no input" outcome, not an error.
	if s := strings.TrimSpace(tr.Transcript); s != "" {
		return s, nil
	}
	return strings.TrimSpace(tr.Text), nil
}
