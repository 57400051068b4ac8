package audioformat

import (
	"encoding/base64"
	"testing"
)

// wavHeader returns a minimal RIFF/WAVE header followed by junk samples.
func wavHeader() []byte {
	b := []byte("RIFF\x24\x00\x00\x00WAVEfmt ")
	return append(b, make([]byte, 32)...)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"riff wave header", wavHeader(), Wav},
		{"id3 tag", []byte("ID3\x04\x00\x00\x00\x00\x00\x00data"), MP3},
		{"mpeg frame sync", []byte{0xFF, 0xFB, 0x90, 0x00, 0x00}, MP3},
		{"mpeg frame sync alt", []byte{0xFF, 0xE2, 0x00, 0x00}, MP3},
		{"unknown defaults to wav", []byte("OggS\x00\x00"), Wav},
		{"riff without wave defaults to wav", []byte("RIFF\x00\x00\x00\x00AVI LIST"), Wav},
		{"empty defaults to wav", nil, Wav},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Detect(tt.data); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromMediaType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   Format
		wantOK bool
	}{
		{"audio/wav", Wav, true},
		{"audio/x-wav", Wav, true},
		{"audio/wave", Wav, true},
		{"audio/mpeg", MP3, true},
		{"audio/mp3", MP3, true},
		{"audio/mpeg; rate=8000", MP3, true},
		{"Audio/WAV", Wav, true},
		{"audio/ogg", "", false},
		{"text/plain", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := FromMediaType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FromMediaType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDecodeDataURI(t *testing.T) {
	t.Parallel()

	wav := wavHeader()
	b64 := base64.StdEncoding.EncodeToString(wav)

	t.Run("declared media type wins", func(t *testing.T) {
		t.Parallel()
		// A wav payload declared as audio/mpeg must come back as MP3:
		// the declared type is the first source of truth.
		data, declared, hasDeclared, err := DecodeDataURI("data:audio/mpeg;base64," + b64)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasDeclared || declared != MP3 {
			t.Errorf("declared = (%q, %v), want (mp3, true)", declared, hasDeclared)
		}
		if len(data) != len(wav) {
			t.Errorf("payload length = %d, want %d", len(data), len(wav))
		}
	})

	t.Run("unrecognised media type falls back to sniffing", func(t *testing.T) {
		t.Parallel()
		data, _, hasDeclared, err := DecodeDataURI("data:application/octet-stream;base64," + b64)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasDeclared {
			t.Error("expected no declared format for application/octet-stream")
		}
		if Detect(data) != Wav {
			t.Error("sniffed format should be wav")
		}
	})

	t.Run("no media type", func(t *testing.T) {
		t.Parallel()
		_, _, hasDeclared, err := DecodeDataURI("data:;base64," + b64)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasDeclared {
			t.Error("expected no declared format")
		}
	})

	t.Run("not base64", func(t *testing.T) {
		t.Parallel()
		if _, _, _, err := DecodeDataURI("data:audio/wav,plain-text"); err == nil {
			t.Fatal("expected error for non-base64 data URI")
		}
	})

	t.Run("not a data uri", func(t *testing.T) {
		t.Parallel()
		if _, _, _, err := DecodeDataURI("https://example.com/a.wav"); err == nil {
			t.Fatal("expected error for non data URI input")
		}
	})

	t.Run("corrupt payload", func(t *testing.T) {
		t.Parallel()
		if _, _, _, err := DecodeDataURI("data:audio/wav;base64,!!!"); err == nil {
			t.Fatal("expected error for corrupt base64")
		}
	})
}

func TestMIMEType(t *testing.T) {
	t.Parallel()
	if got := Wav.MIMEType(); got != "audio/wav" {
		t.Errorf("Wav.MIMEType() = %q", got)
	}
	if got := MP3.MIMEType(); got != "audio/mpeg" {
		t.Errorf("MP3.MIMEType() = %q", got)
	}
}
