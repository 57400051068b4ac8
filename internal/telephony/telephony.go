// Package telephony wraps the signaling provider's REST API: placing
// outbound calls and downloading call recordings.
package telephony

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Anand38913/voice-outbound/internal/config"
	"github.com/Anand38913/voice-outbound/pkg/provider"
)

// recordingFetchTimeout bounds one recording download. Recordings are short
// caller questions; anything slower than this is treated as an upstream
// failure. Exactly one attempt is made, a retry would bill the call twice.
const recordingFetchTimeout = 30 * time.Second

// maxRecordingBytes caps a recording download at well above any plausible
// question length.
const maxRecordingBytes = 16 << 20

// Client talks to the signaling provider.
type Client struct {
	rest       *twilio.RestClient
	httpClient *http.Client
	accountSID string
	authToken  string
	from       string
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for recording downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client's logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client authenticated with the given credentials.
func New(cfg config.TelephonyConfig, opts ...Option) *Client {
	c := &Client{
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		httpClient: &http.Client{Timeout: recordingFetchTimeout},
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlaceCall dials to and points the call at answerURL for its first webhook.
// It returns the provider's call SID and initial status.
func (c *Client) PlaceCall(ctx context.Context, to, answerURL string) (sid, status string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetUrl(answerURL)
	params.SetMethod(http.MethodPost)

	resp, err := c.rest.Api.CreateCall(params)
	if err != nil {
		return "", "", &provider.UpstreamError{Service: "telephony", Err: fmt.Errorf("create call: %w", err)}
	}
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	if resp.Status != nil {
		status = *resp.Status
	}
	c.log.Info("placed outbound call", "to", to, "sid", sid, "status", status)
	return sid, status, nil
}

// FetchRecording downloads the caller's recorded question. The provider's
// recording URLs are extensionless; a .wav suffix selects the WAV rendition.
// The download is authenticated with the account credentials and attempted
// exactly once.
func (c *Client) FetchRecording(ctx context.Context, recordingURL string) ([]byte, error) {
	url := recordingURL
	if !strings.HasSuffix(url, ".wav") && !strings.HasSuffix(url, ".mp3") {
		url += ".wav"
	}

	ctx, cancel := context.WithTimeout(ctx, recordingFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build recording request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &provider.UpstreamError{Service: "recording", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &provider.UpstreamError{
			Service:    "recording",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("recording fetch returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRecordingBytes))
	if err != nil {
		return nil, &provider.UpstreamError{Service: "recording", Err: fmt.Errorf("read recording body: %w", err)}
	}
	return data, nil
}
