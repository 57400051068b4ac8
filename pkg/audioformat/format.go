// Package audioformat detects the container format of synthesized audio
// payloads. Telephony playback resolves the codec from the file extension and
// mimetype, so detection must be exact: a wav served as mp3 is silence on the
// call leg.
package audioformat

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

// Format is an audio container format.
type Format string

const (
	Wav Format = "wav"
	MP3 Format = "mp3"
)

// Extension returns the file extension for f, without the leading dot.
func (f Format) Extension() string { return string(f) }

// MIMEType returns the mimetype to serve f under.
func (f Format) MIMEType() string {
	if f == MP3 {
		return "audio/mpeg"
	}
	return "audio/wav"
}

// FromMediaType maps a declared media type (e.g. from a data-URI prefix or a
// Content-Type header) to a Format. The declared type, when recognised, takes
// precedence over byte sniffing.
func FromMediaType(mediaType string) (Format, bool) {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(mediaType))
	}
	switch mt {
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return Wav, true
	case "audio/mpeg", "audio/mp3", "audio/mpeg3":
		return MP3, true
	}
	return "", false
}

// Detect sniffs the container format from the first bytes of data.
// A RIFF/WAVE header means wav; an ID3 tag or an MPEG frame-sync pattern
// means mp3; anything else defaults to wav, which is what the synthesis
// service produces when asked for telephony audio.
func Detect(data []byte) Format {
	if len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")) {
		return Wav
	}
	if bytes.HasPrefix(data, []byte("ID3")) {
		return MP3
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return MP3
	}
	return Wav
}

// dataURIPrefix marks an RFC 2397 data URI.
const dataURIPrefix = "data:"

// IsDataURI reports whether s looks like a data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, dataURIPrefix)
}

// DecodeDataURI decodes a base64 data URI (data:<mediatype>;base64,<payload>)
// and returns the payload bytes together with the Format declared by the
// media type, when one is declared and recognised.
func DecodeDataURI(s string) (data []byte, declared Format, hasDeclared bool, err error) {
	if !IsDataURI(s) {
		return nil, "", false, errors.New("audioformat: not a data URI")
	}
	rest := s[len(dataURIPrefix):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", false, errors.New("audioformat: data URI has no payload separator")
	}
	meta, payload := rest[:comma], rest[comma+1:]

	enc := base64.StdEncoding
	mediaType := meta
	if i := strings.Index(meta, ";base64"); i >= 0 {
		mediaType = meta[:i]
	} else {
		// Payloads that are not base64-encoded are not produced by any
		// known synthesis backend; reject rather than guess.
		return nil, "", false, errors.New("audioformat: data URI payload is not base64")
	}

	data, err = enc.DecodeString(payload)
	if err != nil {
		// Some services emit URL-safe base64.
		data, err = base64.URLEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", false, fmt.Errorf("audioformat: decode data URI payload: %w", err)
		}
	}

	if mediaType != "" {
		if f, ok := FromMediaType(mediaType); ok {
			return data, f, true, nil
		}
	}
	return data, "", false, nil
}
