// Package config provides the configuration schema and loader for the
// voice-outbound support line.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevel controls log verbosity for the server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration is a time.Duration that unmarshals from YAML strings like "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure. It is typically loaded from a
// YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Telephony TelephonyConfig `yaml:"telephony"`
	Providers ProvidersConfig `yaml:"providers"`
	Languages []LanguageConfig `yaml:"languages"`
	Session   SessionConfig   `yaml:"session"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Support   SupportConfig   `yaml:"support"`

	// Prompts overrides the built-in localized prompt texts. The outer key
	// is the language code, the inner key a prompt name (see internal/locale).
	Prompts map[string]map[string]string `yaml:"prompts"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g. ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// PublicURL is the externally reachable base URL of this service. The
	// signaling provider fetches webhook callbacks and audio artifacts from
	// it, so it must not be a loopback address in production.
	PublicURL string `yaml:"public_url"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// TelephonyConfig holds the signaling provider credentials. All three fields
// are required for outbound calling; with none set, the outbound trigger
// endpoint is disabled and inbound webhooks still work.
type TelephonyConfig struct {
	// AccountSID is the provider account identifier.
	AccountSID string `yaml:"account_sid"`

	// AuthToken authenticates REST calls and recording downloads.
	AuthToken string `yaml:"auth_token"`

	// FromNumber is the E.164 caller ID for outbound calls.
	FromNumber string `yaml:"from_number"`
}

// Enabled reports whether outbound calling is configured.
func (t TelephonyConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

// ProvidersConfig declares which provider implementation to use for each
// pipeline stage.
type ProvidersConfig struct {
	STT ProviderEntry `yaml:"stt"`
	TTS ProviderEntry `yaml:"tts"`
	LLM ProviderEntry `yaml:"llm"`
}

// ProviderEntry is the common configuration block shared by all provider types.
type ProviderEntry struct {
	// Name selects the provider implementation (e.g. "sarvam", "openai").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider.
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}

// LanguageConfig describes one selectable conversation language.
type LanguageConfig struct {
	// Code is the BCP-47 language tag passed to the speech services
	// (e.g. "te-IN").
	Code string `yaml:"code"`

	// Name is the language's display name, used in logs.
	Name string `yaml:"name"`

	// Digit is the single DTMF digit that selects this language from the menu.
	Digit string `yaml:"digit"`

	// Voice is the TTS voice identifier for this language. Empty selects
	// the synthesis provider's default voice.
	Voice string `yaml:"voice"`

	// Fallback marks this language as the default when the caller presses
	// an unmapped digit or no digit at all. Exactly one language may be
	// marked; with none marked, the first language is the fallback.
	Fallback bool `yaml:"fallback"`
}

// SessionConfig bounds session memory.
type SessionConfig struct {
	// InactivityTimeout is how long an idle session survives before the
	// sweep removes it.
	InactivityTimeout Duration `yaml:"inactivity_timeout"`

	// SweepInterval is how often expired sessions are collected.
	SweepInterval Duration `yaml:"sweep_interval"`
}

// ArtifactsConfig bounds the synthesized-audio store.
type ArtifactsConfig struct {
	// Dir is the directory artifacts are written to.
	Dir string `yaml:"dir"`

	// MaxAge is how long an artifact stays retrievable. Each artifact
	// exists only to be played once, shortly after it is written.
	MaxAge Duration `yaml:"max_age"`

	// MaxCount caps the number of retained artifacts. Zero means no cap.
	MaxCount int `yaml:"max_count"`

	// SweepInterval is how often evictable artifacts are collected.
	SweepInterval Duration `yaml:"sweep_interval"`
}

// SupportConfig carries support-desk content injected into answers.
type SupportConfig struct {
	// CareContact is the customer-care contact spoken in billing answers.
	CareContact string `yaml:"care_contact"`
}

// FallbackLanguage returns the language used when the caller's digit maps to
// nothing. Call only after Validate.
func (c *Config) FallbackLanguage() LanguageConfig {
	for _, l := range c.Languages {
		if l.Fallback {
			return l
		}
	}
	return c.Languages[0]
}

// LanguageByDigit returns the language selected by a DTMF digit.
func (c *Config) LanguageByDigit(digit string) (LanguageConfig, bool) {
	for _, l := range c.Languages {
		if l.Digit == digit {
			return l, true
		}
	}
	return LanguageConfig{}, false
}

// LanguageByCode returns the language with the given BCP-47 code.
func (c *Config) LanguageByCode(code string) (LanguageConfig, bool) {
	for _, l := range c.Languages {
		if l.Code == code {
			return l, true
		}
	}
	return LanguageConfig{}, false
}
