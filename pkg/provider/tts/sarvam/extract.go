package sarvam

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Anand38913/voice-outbound/pkg/audioformat"
)

// The synthesis service has returned its payload in several shapes across API
// revisions. extractAudio tries the known locations in a fixed priority
// order and uses the first non-empty match:
//
//  1. entries of the "audios" list, each entry either a raw base64 string
//     or an object carrying the payload under "audio", "audio_base64",
//     "data", or "b64" (tried in that order);
//  2. any candidate that is a data URI; its declared media type is the
//     first source of truth for the container format;
//  3. top-level fields "audio", "audio_base64", "audio_content", "data"
//     (tried in that order).
//
// Candidates that fail to decode are skipped, not fatal: a later location may
// still hold the payload.

// errNoPayload is returned when no location yields a decodable payload.
var errNoPayload = errors.New("no audio payload in synthesis response")

// objectPayloadKeys are the alternate field names an "audios" list object may
// carry the payload under, in priority order.
var objectPayloadKeys = []string{"audio", "audio_base64", "data", "b64"}

// synthesisResponse mirrors every payload location the service is known to use.
type synthesisResponse struct {
	Audios       []json.RawMessage `json:"audios"`
	Audio        string            `json:"audio"`
	AudioBase64  string            `json:"audio_base64"`
	AudioContent string            `json:"audio_content"`
	Data         string            `json:"data"`
}

// extractAudio locates and decodes the audio payload in a synthesis response
// body and determines its container format.
func extractAudio(body []byte) (data []byte, format audioformat.Format, err error) {
	var resp synthesisResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", err
	}

	for _, raw := range resp.Audios {
		if d, f, ok := decodeListEntry(raw); ok {
			return d, f, nil
		}
	}

	for _, candidate := range []string{resp.Audio, resp.AudioBase64, resp.AudioContent, resp.Data} {
		if d, f, ok := decodeCandidate(candidate); ok {
			return d, f, nil
		}
	}

	return nil, "", errNoPayload
}

// decodeListEntry decodes one "audios" entry, which is either a bare base64
// string or an object with the payload under an alternate field name.
func decodeListEntry(raw json.RawMessage) ([]byte, audioformat.Format, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return decodeCandidate(s)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, "", false
	}
	for _, key := range objectPayloadKeys {
		field, ok := obj[key]
		if !ok {
			continue
		}
		var v string
		if err := json.Unmarshal(field, &v); err != nil {
			continue
		}
		if d, f, ok := decodeCandidate(v); ok {
			return d, f, true
		}
	}
	return nil, "", false
}

// decodeCandidate decodes a single payload candidate: a data URI or a bare
// base64 string. The data URI's declared media type, when recognised, wins
// over byte sniffing.
func decodeCandidate(s string) ([]byte, audioformat.Format, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", false
	}

	if audioformat.IsDataURI(s) {
		data, declared, hasDeclared, err := audioformat.DecodeDataURI(s)
		if err != nil || len(data) == 0 {
			return nil, "", false
		}
		if hasDeclared {
			return data, declared, true
		}
		return data, audioformat.Detect(data), true
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, "", false
		}
	}
	if len(data) == 0 {
		return nil, "", false
	}
	return data, audioformat.Detect(data), true
}
